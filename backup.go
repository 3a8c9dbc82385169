package niceview

import (
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/niceview/order"
	"go.uber.org/zap"
)

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}

func (n *NiceView) copyImages(from, to string) (int, error) {
	files, err := order.Scan(from, order.DefaultExtensions)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(to, 0755); err != nil {
		return 0, err
	}

	for i, f := range files {
		if err := copyFile(f.Path, filepath.Join(to, f.Filename)); err != nil {
			return i, err
		}
		n.logger.Debug("copied", zap.String("file", f.Filename), zap.String("to", to))
	}

	return len(files), nil
}

// Backup copies every image in the art directory into the backup
// directory, overwriting files of the same name.
func (n *NiceView) Backup() (int, error) {
	return n.copyImages(n.cfg.ArtDir, n.cfg.BackupDir)
}

// Restore copies every image in the backup directory back into the art
// directory. Images in the art directory that are not in the backup are
// left alone.
func (n *NiceView) Restore() (int, error) {
	return n.copyImages(n.cfg.BackupDir, n.cfg.ArtDir)
}
