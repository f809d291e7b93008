package devserver

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileStore keeps uploaded documents in per-namespace scratch directories.
type FileStore struct {
	mu   sync.Mutex
	root string
}

// NewFileStore uses root as the scratch area, creating it on demand.
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

func (f *FileStore) dir(fileType string) string {
	return filepath.Join(f.root, fileType+"s")
}

// Save stores one uploaded document under its namespace.
func (f *FileStore) Save(fileType, filename string, r io.Reader) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	dir := f.dir(fileType)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, filepath.Base(filename)))
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// List returns the stored filenames for a namespace, sorted.
func (f *FileStore) List(fileType string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir(fileType))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes one stored document.
func (f *FileStore) Delete(fileType, filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return os.Remove(filepath.Join(f.dir(fileType), filepath.Base(filename)))
}

const apiKeyEnvLine = "OPENAI_API_KEY="

// SaveAPIKey writes the key into the scratch .env file, replacing an
// existing OPENAI_API_KEY line or appending one.
func (f *FileStore) SaveAPIKey(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.root, 0o755); err != nil {
		return fmt.Errorf("create env dir: %w", err)
	}
	path := filepath.Join(f.root, ".env")

	var lines []string
	if raw, err := os.ReadFile(path); err == nil {
		if trimmed := strings.TrimRight(string(raw), "\n"); trimmed != "" {
			lines = strings.Split(trimmed, "\n")
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read env file: %w", err)
	}

	replaced := false
	for i, line := range lines {
		if strings.HasPrefix(line, apiKeyEnvLine) {
			lines[i] = apiKeyEnvLine + key
			replaced = true
		}
	}
	if !replaced {
		lines = append(lines, apiKeyEnvLine+key)
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		return fmt.Errorf("write env file: %w", err)
	}
	return nil
}

// HasAny reports whether any namespace holds at least one document.
func (f *FileStore) HasAny() bool {
	for _, ft := range []string{"pdf", "csv"} {
		if names, err := f.List(ft); err == nil && len(names) > 0 {
			return true
		}
	}
	return false
}

func (s *Server) handleUpload(fileType string) http.HandlerFunc {
	ext := "." + fileType
	return func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			respondError(w, http.StatusBadRequest, "file form field is required")
			return
		}
		defer file.Close()

		if !strings.HasSuffix(strings.ToLower(header.Filename), ext) {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Only %s files are allowed.", strings.ToUpper(fileType)))
			return
		}

		if err := s.files.Save(fileType, header.Filename, file); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{
			"message":  "File uploaded successfully!",
			"filename": header.Filename,
		})
	}
}

func (s *Server) handleList(fileType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := s.files.List(fileType)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, names)
	}
}

func (s *Server) handleDelete(fileType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := r.URL.Query().Get("filename")
		if filename == "" {
			respondError(w, http.StatusBadRequest, "filename query parameter is required")
			return
		}
		if err := s.files.Delete(fileType, filename); err != nil {
			respondError(w, http.StatusNotFound, "file not found")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "File deleted successfully!"})
	}
}
