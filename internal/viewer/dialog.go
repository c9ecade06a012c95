package viewer

import (
	"errors"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"
)

// openFileDialog shows a native file dialog to pick an OBJ file.
// The dialog runs off the render thread; the chosen path is posted to
// v.pending and handled by the next frame.
func (v *Viewer) openFileDialog() {
	if v.dialogOpen.Swap(true) {
		return
	}

	go func() {
		defer v.dialogOpen.Store(false)

		filename, err := dialog.File().
			Filter("Wavefront OBJ", "obj").
			Filter("All Files", "*").
			Title("Open Model").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				v.log.Warn("file dialog error", zap.Error(err))
			}
			return
		}

		v.post(request{kind: requestOpen, path: filename})
	}()
}
