package ingestion

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/respite/core"
)

// LoadCorpusDir reads every .txt file under dir and splits each into
// passages on blank lines. The file name becomes the passage source.
func LoadCorpusDir(dir string) ([]*core.Passage, error) {
	var passages []*core.Passage

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".txt") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		passages = append(passages, SplitPassages(string(data), d.Name())...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return passages, nil
}

// SplitPassages splits text into passages on blank lines, labeling each with
// the given source. Blank chunks are dropped.
func SplitPassages(text, source string) []*core.Passage {
	var passages []*core.Passage
	for _, chunk := range strings.Split(text, "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		passages = append(passages, &core.Passage{
			Content: chunk,
			Source:  source,
		})
	}
	return passages
}
