package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ethflowScope/internal/model"
)

// JsonlStorage writes order records to a JSONL file. The file is truncated on
// the first write of a run and appended to afterwards.
type JsonlStorage struct {
	path    string
	mu      sync.Mutex
	started bool
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// PutOrderBatch writes a batch of order records as JSON lines.
func (s *JsonlStorage) PutOrderBatch(orders []model.OrderRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(orders) == 0 && s.started {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if !s.started {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	file, err := os.OpenFile(s.path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()
	s.started = true

	writer := bufio.NewWriter(file)
	for _, record := range orders {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal order record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write order record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}
