package utils

import (
	"testing"

	"github.com/fulldump/biff"
)

func TestGetKeys(t *testing.T) {
	biff.AssertEqual(GetKeys(map[string]int{"strict": 1, "fullscan": 2}), []string{"fullscan", "strict"})
	biff.AssertEqual(len(GetKeys(map[string]int{})), 0)
}
