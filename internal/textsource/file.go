package textsource

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type corpusFile struct {
	Passages []Passage `yaml:"passages"`
}

// LoadCorpusFile reads passages from a YAML file (a `passages` list of
// text/author entries) or from a text file with one passage per line.
func LoadCorpusFile(path string) ([]Passage, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAMLCorpus(path)
	default:
		lines, err := readLines(path)
		if err != nil {
			return nil, err
		}
		passages := make([]Passage, 0, len(lines))
		for _, line := range lines {
			passages = append(passages, Passage{Text: line})
		}
		return passages, nil
	}
}

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	return readLines(path)
}

func loadYAMLCorpus(path string) ([]Passage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file corpusFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode corpus: %w", err)
	}
	passages := make([]Passage, 0, len(file.Passages))
	for _, p := range file.Passages {
		p.Text = strings.TrimSpace(p.Text)
		if p.Text == "" {
			continue
		}
		passages = append(passages, p)
	}
	if len(passages) == 0 {
		return nil, fmt.Errorf("corpus is empty")
	}
	return passages, nil
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only file.
			_ = cerr
		}
	}()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s is empty", filepath.Base(path))
	}
	return lines, nil
}
