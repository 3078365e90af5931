package filestorage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathBuilder_URL(t *testing.T) {
	b := NewPathBuilder("/uploads/")
	assert.Equal(t, "/uploads/projects/p1/v3/spec.pdf", b.URL("p1", 3, "spec.pdf"))
	assert.Equal(t, "/uploads/projects/p1/v1/%D0%BF%D0%BB%D0%B0%D0%BD%20v2.pdf", b.URL("p1", 1, "план v2.pdf"))
}

func TestPathBuilder_Deterministic(t *testing.T) {
	b := NewPathBuilder("uploads")
	assert.Equal(t, b.URL("p1", 2, "a.txt"), b.URL("p1", 2, "a.txt"))
	assert.NotEqual(t, b.URL("p1", 2, "a.txt"), b.URL("p1", 3, "a.txt"))
}

func TestPathBuilder_NoPrefix(t *testing.T) {
	b := NewPathBuilder("")
	assert.Equal(t, "/projects/p1/v1/a.txt", b.URL("p1", 1, "a.txt"))
}

func TestPathBuilder_DotsAreKept(t *testing.T) {
	b := NewPathBuilder("/uploads")
	assert.Equal(t, "projects/../v1/a.txt", b.RelativePath("..", 1, "a.txt"))
}
