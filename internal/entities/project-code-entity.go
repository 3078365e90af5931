package entities

import (
	"fmt"
	"strconv"
)

const projectCodeNamespace = "projectCode"

type ProjectCode struct {
	Prefix   string
	Year     int
	Sequence int64
}

// ProjectCodePartitionKey - ключ счётчика для пары (префикс, год).
func ProjectCodePartitionKey(prefix string, year int) string {
	return projectCodeNamespace + ":" + prefix + ":" + strconv.Itoa(year)
}

func (c ProjectCode) PartitionKey() string {
	return ProjectCodePartitionKey(c.Prefix, c.Year)
}

// String: "PRJ-2026-0004". Номера от 10000 расширяются, а не обрезаются.
func (c ProjectCode) String() string {
	return fmt.Sprintf("%s-%04d-%04d", c.Prefix, c.Year, c.Sequence)
}
