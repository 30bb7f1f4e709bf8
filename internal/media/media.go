// Package media 把帖子图片保存到本地磁盘
package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrTooLarge = errors.New("file is too large")
	ErrNotImage = errors.New("uploaded file is not an image")
)

const postsDir = "posts"

// allowedTypes 只接受位图，SVG 可携带脚本
var allowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Store 本地磁盘存储，引用形如 posts/<uuid>.<ext>
type Store struct {
	root      string
	urlPrefix string
	maxBytes  int64
}

func NewStore(root, urlPrefix string, maxBytes int64) *Store {
	return &Store{root: root, urlPrefix: strings.TrimRight(urlPrefix, "/"), maxBytes: maxBytes}
}

// Save 校验大小与类型后落盘，返回相对引用
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return "", ErrTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return s.save(src)
}

func (s *Store) save(src io.Reader) (string, error) {
	// 先读取头部判断类型，再拼回完整流
	head := make([]byte, 3072)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	head = head[:n]
	mt := mimetype.Detect(head)
	if !mimetype.EqualsAny(mt.String(), allowedTypes...) {
		return "", ErrNotImage
	}

	dir := filepath.Join(s.root, postsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	name := uuid.NewString() + mt.Extension()
	full := filepath.Join(dir, name)
	dst, err := os.Create(full)
	if err != nil {
		return "", err
	}

	_, err = io.Copy(dst, io.MultiReader(bytes.NewReader(head), src))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// 写入失败不留半截文件
		_ = os.Remove(full)
		return "", fmt.Errorf("write media: %w", err)
	}
	return path.Join(postsDir, name), nil
}

// URL 引用对应的访问路径
func (s *Store) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return s.urlPrefix + "/" + ref
}

// Remove 删除已保存的文件，引用为空或文件不存在时忽略
func (s *Store) Remove(ref string) error {
	if ref == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(ref)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
