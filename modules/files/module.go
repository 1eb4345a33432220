package files

import (
	"context"
	"strings"

	"github.com/specialistvlad/devicefarm/internal/registry"
	"github.com/specialistvlad/devicefarm/internal/session"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Upload is one file to send.
type Upload struct {
	Type string
	Path string
}

// Input defines the arguments for upload_file. It is either a single
// file_type/path pair or any number of <type>_file keys, sent in key order.
type Input struct {
	Uploads []Upload
}

func decode(a *registry.Arguments) (Input, error) {
	if a.Has("file_type") || a.Has("path") {
		a.Require("file_type", "path")
		return Input{Uploads: []Upload{{Type: a.String("file_type"), Path: a.String("path")}}}, nil
	}

	var in Input
	for _, key := range a.Rest() {
		fileType, ok := strings.CutSuffix(key, "_file")
		if !ok || fileType == "" {
			a.Fail("unexpected argument %s", key)
			continue
		}
		in.Uploads = append(in.Uploads, Upload{Type: fileType, Path: a.String(key)})
	}
	if len(in.Uploads) == 0 {
		a.Fail("provide file_type and path, or <type>_file keys")
	}
	return in, nil
}

// OnUploadFile uploads each file in turn and stops at the first failure.
func OnUploadFile(ctx context.Context, s *session.Session, in Input) error {
	for _, u := range in.Uploads {
		if err := s.UploadFile(ctx, u.Type, u.Path); err != nil {
			return err
		}
	}
	return nil
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	registry.Register(r, registry.UploadFile, decode, OnUploadFile)
}
