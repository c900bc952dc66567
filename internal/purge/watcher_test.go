package purge_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/csskit/internal/collector"
	"github.com/temirov/csskit/internal/purge"
	"github.com/temirov/csskit/internal/stylesheet"
)

func TestWatcherRerunsOnTemplateChange(t *testing.T) {
	root := t.TempDir()
	cssPath := writeFixture(t, root, "bootstrap.css", ".first{color:red}.second{color:blue}")
	templatePath := writeFixture(t, root, "templates/page.html", `<span class="first">`)

	cache, cacheError := collector.NewCache(16)
	require.NoError(t, cacheError)
	service := purge.NewService(stylesheet.NewBackend(nil), cache, nil)

	results := make(chan purge.Result, 8)
	watcher := purge.NewWatcher(service, purge.Request{
		CSSPath:     cssPath,
		PathsToScan: []string{filepath.Join(root, "templates")},
	}, 20*time.Millisecond, func(result purge.Result, purgeError error) {
		if purgeError == nil {
			results <- result
		}
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() {
		runDone <- watcher.Run(ctx)
	}()

	select {
	case initial := <-results:
		require.Equal(t, []string{".first", "span"}, initial.Kept)
	case <-time.After(5 * time.Second):
		t.Fatal("initial purge did not run")
	}

	require.NoError(t, os.WriteFile(templatePath, []byte(`<span class="first second">`), 0o644))

	deadline := time.After(5 * time.Second)
	for updated := false; !updated; {
		select {
		case rerun := <-results:
			updated = len(rerun.Kept) == 3
			if updated {
				require.Contains(t, rerun.CSS, ".second")
			}
		case <-deadline:
			t.Fatal("purge did not rerun after the template changed")
		}
	}

	cancel()
	select {
	case runError := <-runDone:
		require.NoError(t, runError)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
