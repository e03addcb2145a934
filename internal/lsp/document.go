package lsp

import (
	"sync"

	"go.uber.org/zap"
)

// Document 一个打开的文档
type Document struct {
	URI     string
	Text    string
	Version int
}

// DocumentManager 管理客户端打开的文档（完整同步）
type DocumentManager struct {
	mu     sync.RWMutex
	docs   map[string]*Document
	logger *zap.SugaredLogger
}

// NewDocumentManager 创建文档管理器
func NewDocumentManager(logger *zap.SugaredLogger) *DocumentManager {
	return &DocumentManager{
		docs:   make(map[string]*Document),
		logger: logger,
	}
}

// Open 记录新打开的文档
func (m *DocumentManager) Open(uri, text string, version int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[uri] = &Document{URI: uri, Text: text, Version: version}
	m.logger.Debugf("document opened: %s (version %d)", uri, version)
}

// Update 替换文档内容（完整同步）
func (m *DocumentManager) Update(uri, text string, version int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc, ok := m.docs[uri]; ok {
		doc.Text = text
		doc.Version = version
	} else {
		m.docs[uri] = &Document{URI: uri, Text: text, Version: version}
	}
	m.logger.Debugf("document updated: %s (version %d)", uri, version)
}

// Close 移除文档
func (m *DocumentManager) Close(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, uri)
	m.logger.Debugf("document closed: %s", uri)
}

// Get 返回文档，不存在则返回 nil
func (m *DocumentManager) Get(uri string) *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.docs[uri]
}
