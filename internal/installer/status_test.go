package installer

import (
	"path/filepath"
	"testing"

	"github.com/agentx-labs/extinstall/internal/extension"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDependency(t *testing.T) {
	dep := extension.DependencyConfig{
		Name:        "kafka-clients",
		Version:     "2.8.1",
		Usages:      []extension.UsageConfig{runtimeBundle, editorBundle},
		LookupRegex: `kafka[-_]clients[-_](?P<version>.*)\.jar`,
	}

	tests := []struct {
		name    string
		files   map[string]string // dir kind -> file name
		want    Status
		version string
	}{
		{name: "nothing on disk", want: StatusNotInstalled},
		{
			name:    "runtime only",
			files:   map[string]string{"runtime": "kafka-clients-2.8.1.jar"},
			want:    StatusPartiallyInstalled,
			version: "2.8.1",
		},
		{
			name:    "everywhere",
			files:   map[string]string{"runtime": "kafka-clients-2.8.1.jar", "editor": "kafka_clients_2.8.1.jar"},
			want:    StatusInstalled,
			version: "2.8.1",
		},
		{
			name:    "older version everywhere",
			files:   map[string]string{"runtime": "kafka-clients-2.7.0.jar", "editor": "kafka-clients-2.7.0.jar"},
			want:    StatusOutdated,
			version: "2.7.0",
		},
		{
			name:  "unrelated file",
			files: map[string]string{"runtime": "kafka-streams-2.8.1.jar"},
			want:  StatusNotInstalled,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := testLayout(t)
			if name, ok := tt.files["runtime"]; ok {
				writeArtifact(t, filepath.Join(layout.RuntimeHome, BundlesDir), name)
			}
			if name, ok := tt.files["editor"]; ok {
				writeArtifact(t, filepath.Join(layout.EditorHome, BundlesDir), name)
			}

			st, err := CheckDependency(dep, layout)
			require.NoError(t, err)
			assert.Equal(t, tt.want, st.Status)
			assert.Equal(t, tt.version, st.FoundVersion)
			assert.Len(t, st.Dirs, 2)
		})
	}
}

func TestCheckDependency_NoRegexMatchesFileName(t *testing.T) {
	layout := testLayout(t)
	dep := extension.DependencyConfig{Name: "ojdbc", Version: "8", Usages: []extension.UsageConfig{runtimeJar}}

	st, err := CheckDependency(dep, layout)
	require.NoError(t, err)
	assert.Equal(t, StatusNotInstalled, st.Status)

	writeArtifact(t, filepath.Join(layout.RuntimeHome, JarsDir), "ojdbc-8.jar")
	st, err = CheckDependency(dep, layout)
	require.NoError(t, err)
	assert.Equal(t, StatusInstalled, st.Status)
	assert.Len(t, st.Found, 1)
}

func TestCheckDependency_EditorOnlyWithoutEditorHome(t *testing.T) {
	layout := Layout{RuntimeHome: t.TempDir()}
	dep := extension.DependencyConfig{Name: "ui-lib", Usages: []extension.UsageConfig{editorBundle}}

	st, err := CheckDependency(dep, layout)
	require.NoError(t, err)
	assert.Empty(t, st.Dirs)
	assert.Equal(t, StatusInstalled, st.Status)
}

func TestCheckDependency_BadRegex(t *testing.T) {
	dep := extension.DependencyConfig{Name: "broken", LookupRegex: "broken-(.*"}
	_, err := CheckDependency(dep, testLayout(t))
	assert.Error(t, err)
}

func TestCheckExtension(t *testing.T) {
	layout := testLayout(t)
	cfg := kafkaConfig("https://repo.example.com")

	es, err := CheckExtension(cfg, layout)
	require.NoError(t, err)
	assert.Equal(t, "kafka", es.Name)
	assert.Equal(t, StatusNotInstalled, es.Status)
	assert.Equal(t, StatusNotInstalled, es.Artifact)
	require.Len(t, es.Dependencies, 3)

	writeArtifact(t, filepath.Join(layout.RuntimeHome, BundlesDir), "siddhi-io-kafka-5.1.2.jar")
	es, err = CheckExtension(cfg, layout)
	require.NoError(t, err)
	assert.Equal(t, StatusInstalled, es.Artifact)
	assert.Equal(t, StatusPartiallyInstalled, es.Status)

	writeArtifact(t, filepath.Join(layout.RuntimeHome, BundlesDir), "kafka-clients-2.8.1.jar")
	writeArtifact(t, filepath.Join(layout.EditorHome, BundlesDir), "kafka-clients-2.8.1.jar")
	writeArtifact(t, filepath.Join(layout.RuntimeHome, JarsDir), "ojdbc-8.jar")
	writeArtifact(t, filepath.Join(layout.RuntimeHome, JarsDir), "scala-library-2.13.6.jar")
	es, err = CheckExtension(cfg, layout)
	require.NoError(t, err)
	assert.Equal(t, StatusInstalled, es.Status)
}

func TestCheckExtension_NothingToCheck(t *testing.T) {
	cfg := extension.NewBuilder().Info(extension.InfoName, "grpc").Build()

	es, err := CheckExtension(cfg, testLayout(t))
	require.NoError(t, err)
	assert.Equal(t, StatusUnknown, es.Status)
	assert.Equal(t, StatusUnknown, es.Artifact)
}

func TestCombine(t *testing.T) {
	tests := []struct {
		parts []Status
		want  Status
	}{
		{nil, StatusUnknown},
		{[]Status{StatusInstalled, StatusInstalled}, StatusInstalled},
		{[]Status{StatusNotInstalled, StatusNotInstalled}, StatusNotInstalled},
		{[]Status{StatusInstalled, StatusOutdated}, StatusOutdated},
		{[]Status{StatusInstalled, StatusNotInstalled}, StatusPartiallyInstalled},
		{[]Status{StatusOutdated, StatusPartiallyInstalled}, StatusPartiallyInstalled},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, combine(tt.parts), "combine(%v)", tt.parts)
	}
}
