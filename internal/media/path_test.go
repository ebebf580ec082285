package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectPath(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "encoded folder separator",
			url:  "https://host/v0/b/bucket/o/folder%2Ffile.mp4?alt=media&token=abc",
			want: "folder/file.mp4",
		},
		{
			name: "no query string",
			url:  "https://firebasestorage.googleapis.com/v0/b/app.appspot.com/o/videos%2Fclip.mov",
			want: "videos/clip.mov",
		},
		{
			name: "encoded spaces and unicode",
			url:  "https://host/v0/b/bucket/o/videos%2Fmy%20clip%20%C3%A9.mp4?alt=media",
			want: "videos/my clip é.mp4",
		},
		{
			name: "plus sign is kept",
			url:  "https://host/v0/b/bucket/o/a+b.mp4?alt=media",
			want: "a+b.mp4",
		},
		{
			name: "encoded question mark stays in the path",
			url:  "https://host/v0/b/bucket/o/what%3F.mp4?alt=media",
			want: "what?.mp4",
		},
		{
			name:    "missing object marker",
			url:     "https://host/v0/b/bucket/file.mp4?alt=media",
			wantErr: true,
		},
		{
			name:    "empty object name",
			url:     "https://host/v0/b/bucket/o/?alt=media",
			wantErr: true,
		},
		{
			name:    "relative reference",
			url:     "/v0/b/bucket/o/file.mp4",
			wantErr: true,
		},
		{
			name:    "not a url",
			url:     "::not a url::",
			wantErr: true,
		},
		{
			name:    "empty string",
			url:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ObjectPath(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedURL)
				assert.Empty(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
