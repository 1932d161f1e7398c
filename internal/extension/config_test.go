package extension

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func dep(name string, auto bool) DependencyConfig {
	return DependencyConfig{Name: name, Download: DownloadConfig{AutoDownloadable: auto}}
}

func names(deps []DependencyConfig) []string {
	result := make([]string, 0, len(deps))
	for _, d := range deps {
		result = append(result, d.Name)
	}
	return result
}

func TestPartition(t *testing.T) {
	cfg := New(nil, nil, []DependencyConfig{
		dep("A", true),
		dep("B", false),
		dep("C", true),
	})

	assert.Equal(t, []string{"A", "C"}, names(cfg.AutoDownloadableDependencies()))
	assert.Equal(t, []string{"B"}, names(cfg.ManuallyInstallableDependencies()))
	assert.Equal(t, []string{"A", "B", "C"}, names(cfg.Dependencies()))
}

// Every auto/manual combination of up to six dependencies must split into
// two disjoint, order-preserving subsequences that together cover the list.
func TestPartition_AllCombinations(t *testing.T) {
	for n := 0; n <= 6; n++ {
		for mask := 0; mask < 1<<n; mask++ {
			var deps []DependencyConfig
			var wantAuto, wantManual []string
			for i := 0; i < n; i++ {
				name := fmt.Sprintf("d%d", i)
				auto := mask&(1<<i) != 0
				deps = append(deps, dep(name, auto))
				if auto {
					wantAuto = append(wantAuto, name)
				} else {
					wantManual = append(wantManual, name)
				}
			}

			cfg := New(nil, nil, deps)
			auto := names(cfg.AutoDownloadableDependencies())
			manual := names(cfg.ManuallyInstallableDependencies())

			if wantAuto == nil {
				wantAuto = []string{}
			}
			if wantManual == nil {
				wantManual = []string{}
			}
			require.Equal(t, wantAuto, auto, "n=%d mask=%b", n, mask)
			require.Equal(t, wantManual, manual, "n=%d mask=%b", n, mask)
			require.Len(t, cfg.Dependencies(), len(auto)+len(manual))
		}
	}
}

func TestPartition_Empty(t *testing.T) {
	cfg := New(nil, nil, nil)

	assert.NotNil(t, cfg.AutoDownloadableDependencies())
	assert.Empty(t, cfg.AutoDownloadableDependencies())
	assert.NotNil(t, cfg.ManuallyInstallableDependencies())
	assert.Empty(t, cfg.ManuallyInstallableDependencies())
}

func TestDependencies_KeepsDuplicates(t *testing.T) {
	cfg := New(nil, nil, []DependencyConfig{
		dep("A", true),
		dep("A", true),
		dep("B", false),
		dep("A", true),
	})

	assert.Equal(t, []string{"A", "A", "B", "A"}, names(cfg.Dependencies()))
	assert.Equal(t, []string{"A", "A", "A"}, names(cfg.AutoDownloadableDependencies()))
}

func TestZeroValue(t *testing.T) {
	var cfg ExtensionConfig

	info := cfg.ExtensionInfo()
	assert.NotNil(t, info)
	assert.Empty(t, info)

	id, ok := cfg.Identifier()
	assert.False(t, ok)
	assert.Equal(t, IdentifierConfig{}, id)

	assert.NotNil(t, cfg.Dependencies())
	assert.Empty(t, cfg.Dependencies())
	assert.Equal(t, "", cfg.Name())
}

func TestNilReceiver(t *testing.T) {
	var cfg *ExtensionConfig

	assert.Empty(t, cfg.ExtensionInfo())
	_, ok := cfg.Identifier()
	assert.False(t, ok)
	assert.Empty(t, cfg.Dependencies())
	assert.Empty(t, cfg.AutoDownloadableDependencies())
	assert.Empty(t, cfg.ManuallyInstallableDependencies())
}

func TestNew_CopiesInputs(t *testing.T) {
	info := map[string]string{InfoName: "kafka"}
	id := &IdentifierConfig{ID: "siddhi-io-kafka", Usages: []UsageConfig{{Type: UsageBundle, UsedBy: UsedByRuntime}}}
	deps := []DependencyConfig{dep("A", true)}

	cfg := New(info, id, deps)

	info[InfoName] = "changed"
	id.ID = "changed"
	id.Usages[0].Type = UsageJar
	deps[0].Name = "changed"

	assert.Equal(t, "kafka", cfg.Name())
	got, ok := cfg.Identifier()
	require.True(t, ok)
	assert.Equal(t, "siddhi-io-kafka", got.ID)
	assert.Equal(t, UsageBundle, got.Usages[0].Type)
	assert.Equal(t, "A", cfg.Dependencies()[0].Name)
}

func TestAccessors_ReturnCopies(t *testing.T) {
	cfg := NewBuilder().
		Info(InfoName, "kafka").
		Dependency(DependencyConfig{
			Name:     "A",
			Download: DownloadConfig{AutoDownloadable: true},
			Usages:   []UsageConfig{{Type: UsageJar, UsedBy: UsedByRuntime}},
		}).
		Build()

	cfg.ExtensionInfo()[InfoName] = "changed"
	deps := cfg.Dependencies()
	deps[0].Name = "changed"
	auto := cfg.AutoDownloadableDependencies()
	auto[0].Usages[0].Type = UsageBundle

	assert.Equal(t, "kafka", cfg.Name())
	assert.Equal(t, "A", cfg.Dependencies()[0].Name)
	assert.Equal(t, UsageJar, cfg.Dependencies()[0].Usages[0].Type)
}

func TestBuilder(t *testing.T) {
	b := NewBuilder().
		Info(InfoName, "kafka").
		Info(InfoVersion, "5.1.2").
		Identifier(IdentifierConfig{ID: "siddhi-io-kafka"}).
		Dependency(dep("A", true), dep("B", false))

	cfg := b.Build()
	b.Dependency(dep("C", true))
	b.Info(InfoName, "other")

	assert.Equal(t, "kafka", cfg.Name())
	assert.Equal(t, "5.1.2", cfg.Version())
	assert.Equal(t, "kafka", cfg.DisplayName())
	assert.Equal(t, []string{"A", "B"}, names(cfg.Dependencies()))

	id, ok := cfg.Identifier()
	require.True(t, ok)
	assert.Equal(t, "siddhi-io-kafka", id.ID)
}

func TestUnmarshalYAML(t *testing.T) {
	data := `extension:
  name: cdc-mysql
  displayName: CDC - MySQL
  version: 2.0.6
identifier:
  id: siddhi-io-cdc
dependencies:
  - name: mysql-connector
    version: 8.0.27
    download:
      autoDownloadable: false
      instructions: Download the MySQL connector.
  - name: debezium-mysql
    download:
      autoDownloadable: true
      url: https://repo.example.com/debezium-mysql-1.9.jar
`
	var cfg ExtensionConfig
	require.NoError(t, yaml.Unmarshal([]byte(data), &cfg))

	assert.Equal(t, "CDC - MySQL", cfg.DisplayName())
	assert.Equal(t, "2.0.6", cfg.Version())
	id, ok := cfg.Identifier()
	require.True(t, ok)
	assert.Equal(t, "siddhi-io-cdc", id.ID)
	assert.Equal(t, []string{"debezium-mysql"}, names(cfg.AutoDownloadableDependencies()))
	assert.Equal(t, []string{"mysql-connector"}, names(cfg.ManuallyInstallableDependencies()))
}

func TestUnmarshalYAML_MissingFields(t *testing.T) {
	var cfg ExtensionConfig
	require.NoError(t, yaml.Unmarshal([]byte("extension:\n  name: bare\n"), &cfg))

	_, ok := cfg.Identifier()
	assert.False(t, ok)
	assert.Empty(t, cfg.Dependencies())
	assert.Equal(t, map[string]string{InfoName: "bare"}, cfg.ExtensionInfo())
}

func TestMarshalYAML_RoundTrip(t *testing.T) {
	original := NewBuilder().
		Info(InfoName, "kafka").
		Identifier(IdentifierConfig{ID: "siddhi-io-kafka", LookupRegex: `siddhi-io-kafka-.*\.jar`}).
		Dependency(dep("A", true), dep("B", false)).
		Build()

	data, err := yaml.Marshal(original)
	require.NoError(t, err)

	var loaded ExtensionConfig
	require.NoError(t, yaml.Unmarshal(data, &loaded))

	assert.Equal(t, original.ExtensionInfo(), loaded.ExtensionInfo())
	assert.Equal(t, original.Dependencies(), loaded.Dependencies())
	wantID, _ := original.Identifier()
	gotID, ok := loaded.Identifier()
	require.True(t, ok)
	assert.Equal(t, wantID, gotID)
}

func TestDependencyFileName(t *testing.T) {
	tests := []struct {
		name string
		dep  DependencyConfig
		want string
	}{
		{
			name: "from url",
			dep:  DependencyConfig{Name: "kafka-clients", Download: DownloadConfig{URL: "https://repo.example.com/kafka/kafka-clients-2.8.1.jar?raw=1"}},
			want: "kafka-clients-2.8.1.jar",
		},
		{
			name: "name and version",
			dep:  DependencyConfig{Name: "ojdbc", Version: "v8"},
			want: "ojdbc-8.jar",
		},
		{
			name: "name only",
			dep:  DependencyConfig{Name: "ojdbc"},
			want: "ojdbc.jar",
		},
		{
			name: "url without path",
			dep:  DependencyConfig{Name: "x", Version: "1.0.0", Download: DownloadConfig{URL: "https://repo.example.com"}},
			want: "x-1.0.0.jar",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dep.FileName())
		})
	}
}
