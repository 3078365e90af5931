// pkg/filestorage/path_builder.go

package filestorage

import (
	"net/url"
	"strconv"
	"strings"
)

// PathBuilder строит канонический путь файла версии.
// Один и тот же (projectID, version, fileName) всегда даёт один и тот же URL.
type PathBuilder struct {
	urlPrefix string
}

func NewPathBuilder(urlPrefix string) *PathBuilder {
	prefix := "/" + strings.Trim(urlPrefix, "/")
	if prefix == "/" {
		prefix = ""
	}
	return &PathBuilder{urlPrefix: prefix}
}

// URL - "/uploads/projects/p1/v3/spec.pdf". Имя файла экранируется как сегмент пути.
func (b *PathBuilder) URL(projectID string, version int64, fileName string) string {
	return b.urlPrefix + "/" + b.RelativePath(projectID, version, fileName)
}

func (b *PathBuilder) RelativePath(projectID string, version int64, fileName string) string {
	// без path.Join: он схлопнул бы ".." в projectID
	return strings.Join([]string{
		"projects",
		url.PathEscape(projectID),
		"v" + strconv.FormatInt(version, 10),
		url.PathEscape(fileName),
	}, "/")
}
