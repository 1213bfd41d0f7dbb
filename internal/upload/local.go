package upload

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/google/uuid"
)

// MaxImageSize - лимит размера загружаемой картинки (5MB)
const MaxImageSize = 5 << 20

// расширение файла по фактическому содержимому, а не по имени
var allowedFormats = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// Result - ответ на успешную загрузку
type Result struct {
	PublicID string `json:"publicId"`
	ImageURL string `json:"imageUrl"`
	Format   string `json:"format"`
	Bytes    int64  `json:"bytes"`
	Filename string `json:"filename"`
}

// LocalStore сохраняет картинки на локальный диск под публичным id (uuid)
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("could not create upload directory: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: baseURL}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

// Save проверяет тип и размер содержимого и кладет файл на диск
func (s *LocalStore) Save(filename string, r io.Reader, size int64) (*Result, error) {
	if size > MaxImageSize {
		return nil, apperr.Validation("image exceeds the %d byte limit", MaxImageSize)
	}

	// тип определяем по первым 512 байтам содержимого
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, apperr.Internal(err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	format, ok := allowedFormats[contentType]
	if !ok {
		return nil, apperr.Validation("unsupported image type %s (want JPEG, PNG or WebP)", contentType)
	}

	publicID := uuid.NewString()
	name := publicID + "." + format
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer f.Close()

	written, err := io.Copy(f, io.MultiReader(bytes.NewReader(head), io.LimitReader(r, MaxImageSize)))
	if err != nil {
		os.Remove(path)
		return nil, apperr.Internal(err)
	}

	return &Result{
		PublicID: publicID,
		ImageURL: s.baseURL + "/" + name,
		Format:   format,
		Bytes:    written,
		Filename: filename,
	}, nil
}

// Remove удаляет файл по публичному id
func (s *LocalStore) Remove(publicID, format string) error {
	return os.Remove(filepath.Join(s.dir, publicID+"."+format))
}
