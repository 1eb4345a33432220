package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/specialistvlad/devicefarm/internal/ctxlog"
)

// UploadFile uploads the local file at path as fileType to the bound project.
// A file whose base name the farm already lists is skipped.
func (s *Session) UploadFile(ctx context.Context, fileType, path string) error {
	logger := ctxlog.FromContext(ctx).With("file_type", fileType, "path", path)
	projectID, err := s.requireProject()
	if err != nil {
		return err
	}
	if !slices.Contains(s.cfg.FileTypes, fileType) {
		return &FileError{Kind: FileUnsupportedType, Path: path, FileType: fileType}
	}
	if st, err := os.Stat(path); err != nil || st.IsDir() {
		return &FileError{Kind: FileNotFoundLocally, Path: path, FileType: fileType, Err: err}
	}

	name := filepath.Base(path)
	present, err := s.onFarm(ctx, name)
	if err != nil {
		return err
	}
	if present {
		logger.Info("File already exists on the farm, skipping upload.")
		return nil
	}

	userID, err := s.user(ctx)
	if err != nil {
		return err
	}
	apiPath := fmt.Sprintf("users/%d/projects/%d/files/%s", userID, projectID, fileType)
	if _, err := s.api.Upload(ctx, apiPath, path); err != nil {
		return &FileError{Kind: FileUploadFailed, Path: path, FileType: fileType, StatusCode: statusOf(err), Err: err}
	}

	present, err = s.onFarm(ctx, name)
	if err != nil {
		return err
	}
	if !present {
		return &FileError{Kind: FileUploadFailed, Path: path, FileType: fileType, Err: fmt.Errorf("%s is not listed after upload", name)}
	}
	logger.Info("Uploaded file.", "name", name)
	return nil
}

func (s *Session) onFarm(ctx context.Context, name string) (bool, error) {
	files, err := s.api.GetInputFiles(ctx)
	if err != nil {
		return false, err
	}
	for _, f := range files {
		if f.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// user returns the authenticated user's id, fetched once per session.
func (s *Session) user(ctx context.Context) (int64, error) {
	if s.userID != nil {
		return *s.userID, nil
	}
	me, err := s.api.GetMe(ctx)
	if err != nil {
		return 0, err
	}
	s.userID = &me.ID
	return me.ID, nil
}
