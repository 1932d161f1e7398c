package installer

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/agentx-labs/extinstall/internal/extension"
	"github.com/stretchr/testify/require"
)

var (
	runtimeBundle = extension.UsageConfig{Type: extension.UsageBundle, UsedBy: extension.UsedByRuntime}
	runtimeJar    = extension.UsageConfig{Type: extension.UsageJar, UsedBy: extension.UsedByRuntime}
	editorBundle  = extension.UsageConfig{Type: extension.UsageBundle, UsedBy: extension.UsedByEditor}
)

// testLayout creates empty runtime and editor homes.
func testLayout(t *testing.T) Layout {
	t.Helper()
	return Layout{RuntimeHome: t.TempDir(), EditorHome: t.TempDir()}
}

// writeArtifact creates an empty file named name in dir.
func writeArtifact(t *testing.T, dir, name string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("artifact"), 0644))
	return path
}

func sha256Hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// artifactServer serves "content of <path>" for every path except ones
// containing "missing", which return 404. It counts requests.
func artifactServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if strings.Contains(r.URL.Path, "missing") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("content of " + r.URL.Path))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func kafkaConfig(baseURL string) *extension.ExtensionConfig {
	return extension.NewBuilder().
		Info(extension.InfoName, "kafka").
		Info(extension.InfoVersion, "5.1.2").
		Identifier(extension.IdentifierConfig{
			ID:          "siddhi-io-kafka",
			LookupRegex: `siddhi-io-kafka-\d.*\.jar`,
			Usages:      []extension.UsageConfig{runtimeBundle},
		}).
		Dependency(
			extension.DependencyConfig{
				Name:        "kafka-clients",
				Version:     "2.8.1",
				Download:    extension.DownloadConfig{AutoDownloadable: true, URL: baseURL + "/kafka/kafka-clients-2.8.1.jar"},
				Usages:      []extension.UsageConfig{runtimeBundle, editorBundle},
				LookupRegex: `kafka[-_]clients[-_](?P<version>.*)\.jar`,
			},
			extension.DependencyConfig{
				Name:     "ojdbc",
				Version:  "8",
				Download: extension.DownloadConfig{Instructions: "Download ojdbc8.jar from Oracle."},
				Usages:   []extension.UsageConfig{runtimeJar},
			},
			extension.DependencyConfig{
				Name:     "scala-library",
				Version:  "2.13.6",
				Download: extension.DownloadConfig{AutoDownloadable: true, URL: baseURL + "/scala/scala-library-2.13.6.jar"},
				Usages:   []extension.UsageConfig{runtimeJar},
			},
		).
		Build()
}
