package ui

import (
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"snekctl/internal/descriptor"
	"snekctl/internal/lockfile"
)

type watchStartedMsg struct {
	w  *fsnotify.Watcher
	ch chan struct{}
}

// startWatchCmd watches the directory holding devshell.json so edits and
// sync runs refresh the dash without a manual /reload. Watching the
// directory rather than the file survives editors that replace-on-save.
func startWatchCmd(cwd string) tea.Cmd {
	return func() tea.Msg {
		dpath, err := descriptor.Find(cwd)
		if err != nil {
			return nil
		}
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return nil
		}
		dir := filepath.Dir(dpath)
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil
		}
		interesting := map[string]bool{
			filepath.Base(dpath):                true,
			filepath.Base(lockfile.Path(dpath)): true,
		}
		ch := make(chan struct{}, 1)
		go func() {
			for {
				select {
				case ev, ok := <-w.Events:
					if !ok {
						return
					}
					if !interesting[filepath.Base(ev.Name)] {
						continue
					}
					select {
					case ch <- struct{}{}:
					default:
					}
				case _, ok := <-w.Errors:
					if !ok {
						return
					}
				}
			}
		}()
		return watchStartedMsg{w: w, ch: ch}
	}
}

// watchSubscribeCmd blocks on the next change signal, then debounces briefly
// so editor write bursts coalesce into one reload.
func watchSubscribeCmd(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if ch == nil {
			return nil
		}
		<-ch
		time.Sleep(120 * time.Millisecond)
		return fileChangedMsg{}
	}
}
