package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const fileExt = ".txt"

var (
	ErrNotFound    = errors.New("subject file not found")
	ErrInvalidName = errors.New("invalid subject name")
)

// File содержимое одного файла банка вопросов
type File struct {
	Name    string
	Content []byte
}

// FileRepository хранит банки вопросов в каталоге в виде <name>.txt
type FileRepository struct {
	dir string
}

// NewFileRepository создает новый экземпляр FileRepository
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

// Dir возвращает каталог с банками
func (r *FileRepository) Dir() string {
	return r.dir
}

// Load читает все *.txt из каталога. Отсутствующий каталог создается.
func (r *FileRepository) Load(ctx context.Context) ([]File, error) {
	const op = "repository.FileRepository.Load"

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: failed to create data dir: %w", op, err)
	}

	paths, err := filepath.Glob(filepath.Join(r.dir, "*"+fileExt))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list data dir: %w", op, err)
	}
	sort.Strings(paths)

	files := make([]File, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read %s: %w", op, path, err)
		}
		files = append(files, File{
			Name:    strings.TrimSuffix(filepath.Base(path), fileExt),
			Content: content,
		})
	}

	return files, nil
}

// Save записывает файл банка. Запись идет через временный файл, чтобы Load не увидел половину содержимого.
func (r *FileRepository) Save(ctx context.Context, name string, content []byte) error {
	const op = "repository.FileRepository.Save"

	if err := ValidateName(name); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("%s: failed to create data dir: %w", op, err)
	}

	tmp, err := os.CreateTemp(r.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("%s: failed to create temp file: %w", op, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: failed to write temp file: %w", op, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: failed to close temp file: %w", op, err)
	}

	if err := os.Rename(tmp.Name(), r.path(name)); err != nil {
		return fmt.Errorf("%s: failed to store subject: %w", op, err)
	}
	return nil
}

// Delete удаляет файл банка
func (r *FileRepository) Delete(ctx context.Context, name string) error {
	const op = "repository.FileRepository.Delete"

	if err := ValidateName(name); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := os.Remove(r.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: failed to remove subject: %w", op, err)
	}
	return nil
}

func (r *FileRepository) path(name string) string {
	return filepath.Join(r.dir, name+fileExt)
}

// ValidateName проверяет, что имя предмета можно использовать как имя файла
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return ErrInvalidName
	case strings.ContainsAny(name, `/\`), strings.HasPrefix(name, "."):
		return ErrInvalidName
	}
	return nil
}
