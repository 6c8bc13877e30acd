package bucket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseURL(t *testing.T) {
	cases := []struct {
		raw, local  string
		bucket, key string
	}{
		{"s3://songs/out/a.mp3", "/tmp/x.mp3", "songs", "out/a.mp3"},
		{"s3://songs/out/", "/tmp/x.mp3", "songs", "out/x.mp3"},
		{"s3://songs", "/tmp/x.wav", "songs", "x.wav"},
	}
	for _, c := range cases {
		t.Run(c.raw, func(t *testing.T) {
			bucket, key, err := ParseURL(c.raw, c.local)
			assert.NoError(t, err)
			assert.Equal(t, c.bucket, bucket)
			assert.Equal(t, c.key, key)
		})
	}
}

func TestParseURLRejectsOtherSchemes(t *testing.T) {
	_, _, err := ParseURL("https://example.com/a.mp3", "a.mp3")
	assert.Error(t, err)

	_, _, err = ParseURL("s3:///a.mp3", "a.mp3")
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "audio/mpeg", ContentType("a.MP3"))
	assert.Equal(t, "audio/wav", ContentType("a.wav"))
	assert.Equal(t, "audio/midi", ContentType("a.mid"))
	assert.Equal(t, "application/octet-stream", ContentType("a.txt"))
}
