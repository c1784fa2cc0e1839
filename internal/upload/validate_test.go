package upload

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  bool
	}{
		{"pdf document", "poem.pdf", 1 << 20, false},
		{"audio file", "track.mp3", 50 << 20, false},
		{"uppercase extension", "PHOTO.JPG", 1024, false},
		{"design file", "cover.psd", 10 << 20, false},
		{"at size cap", "film.mp4", MaxFileSize, false},
		{"over size cap", "film.mp4", MaxFileSize + 1, true},
		{"executable", "malware.exe", 1024, true},
		{"no extension", "README", 1024, true},
		{"dotfile", ".gitignore", 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.filename, tt.size)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFile) {
					t.Fatalf("err=%v want ErrInvalidFile", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestExt(t *testing.T) {
	if got := Ext("archive.tar.GZ"); got != "gz" {
		t.Fatalf("Ext=%q want gz", got)
	}
	if got := Ext("noext"); got != "" {
		t.Fatalf("Ext=%q want empty", got)
	}
}
