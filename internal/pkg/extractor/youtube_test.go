package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short link with query", "https://youtu.be/dQw4w9WgXcQ?t=42", "dQw4w9WgXcQ", true},
		{"watch with extra params", "https://youtube.com/watch?v=abc12345678&t=10", "abc12345678", true},
		{"www host", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"mobile host", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"v path", "https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"shorts", "https://youtube.com/shorts/abcdefghijk", "abcdefghijk", true},
		{"live", "https://www.youtube.com/live/a_b-c_d-e_f", "a_b-c_d-e_f", true},
		{"music subdomain", "https://music.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"bare id", "dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"schemeless", "youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"invalid v param", "https://youtube.com/watch?v=short", "", false},
		{"channel page", "https://www.youtube.com/@somechannel", "", false},
		{"short link without id", "https://youtu.be/", "", false},
		{"not youtube", "https://example.com/not-a-video", "", false},
		{"lookalike host", "https://notyoutube.com/watch?v=dQw4w9WgXcQ", "", false},
		{"empty", "", "", false},
		{"whitespace", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractVideoID(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestIsYouTubeURL(t *testing.T) {
	assert.True(t, IsYouTubeURL("https://youtu.be/dQw4w9WgXcQ"))
	assert.True(t, IsYouTubeURL("https://www.youtube.com/@somechannel"))
	assert.True(t, IsYouTubeURL("https://m.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.False(t, IsYouTubeURL("https://example.com/not-a-video"))
	assert.False(t, IsYouTubeURL("https://blog.example.com/youtube-tips"))
}

func TestJoinTranscript(t *testing.T) {
	segments := []string{"  Hello\nthere ", "", "   ", "general\t\tkenobi"}
	assert.Equal(t, "Hello there general kenobi", joinTranscript(segments))
	assert.Equal(t, "", joinTranscript(nil))
}
