package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// ============================================================================
// Server - Riva 语言服务器
// ============================================================================
//
// 基于 stdio 的 JSON-RPC 循环，消息类型用 go.lsp.dev/protocol。
// 文档做完整同步；每次打开/变更/保存后重新分析并推送诊断。
//
// ============================================================================

// Server LSP 服务器
type Server struct {
	docManager *DocumentManager
	logger     *zap.SugaredLogger

	workspaceRoot string
	warnUnused    bool

	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex

	initialized bool
	shutdown    bool
}

// NewServer 创建 LSP 服务器
//
// warnUnused 透传给解析器（配置项 diagnostics.warn_unused）。
func NewServer(logPath string, warnUnused bool) *Server {
	logger := NewLogger(logPath)

	return &Server{
		docManager: NewDocumentManager(logger),
		logger:     logger,
		warnUnused: warnUnused,
		reader:     bufio.NewReader(os.Stdin),
		writer:     os.Stdout,
	}
}

// Run 启动服务器主循环
func (s *Server) Run(ctx context.Context) error {
	s.logger.Infof("Riva LSP server started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				s.logger.Infof("client disconnected")
				return nil
			}
			s.logger.Errorf("error reading message: %v", err)
			continue
		}

		s.handleMessage(msg)

		if s.shutdown {
			s.logger.Infof("server shutdown")
			return nil
		}
	}
}

// readMessage 读取一条 LSP 消息（Content-Length 帧）
func (s *Server) readMessage() ([]byte, error) {
	var contentLength int
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)

		if line == "" {
			break
		}

		if strings.HasPrefix(line, "Content-Length:") {
			lengthStr := strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:"))
			contentLength, err = strconv.Atoi(lengthStr)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %s", lengthStr)
			}
		}
	}

	if contentLength == 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	content := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, content); err != nil {
		return nil, err
	}

	s.logger.Debugf("received message: %d bytes", contentLength)
	return content, nil
}

// sendMessage 发送一条 LSP 消息
func (s *Server) sendMessage(msg interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(content))

	if _, err := s.writer.Write([]byte(header)); err != nil {
		return err
	}
	_, err = s.writer.Write(content)
	return err
}

// handleMessage 解析并分发一条消息
func (s *Server) handleMessage(msg []byte) {
	var baseMsg struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id,omitempty"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}

	if err := json.Unmarshal(msg, &baseMsg); err != nil {
		s.logger.Errorf("error parsing message: %v", err)
		return
	}

	s.logger.Debugf("handling method: %s", baseMsg.Method)

	switch baseMsg.Method {
	case "initialize":
		s.handleInitialize(baseMsg.ID, baseMsg.Params)
	case "initialized":
		s.initialized = true
		s.logger.Infof("server initialized")
	case "shutdown":
		s.sendResult(baseMsg.ID, nil)
	case "exit":
		s.shutdown = true
	case "textDocument/didOpen":
		s.handleDidOpen(baseMsg.Params)
	case "textDocument/didChange":
		s.handleDidChange(baseMsg.Params)
	case "textDocument/didClose":
		s.handleDidClose(baseMsg.Params)
	case "textDocument/didSave":
		s.handleDidSave(baseMsg.Params)
	default:
		s.logger.Debugf("unhandled method: %s", baseMsg.Method)
		if baseMsg.ID != nil {
			s.sendError(baseMsg.ID, -32601, "Method not found: "+baseMsg.Method)
		}
	}
}

// handleInitialize 处理初始化请求
func (s *Server) handleInitialize(id json.RawMessage, params json.RawMessage) {
	var initParams protocol.InitializeParams
	if err := json.Unmarshal(params, &initParams); err != nil {
		s.sendError(id, -32700, "Parse error")
		return
	}

	if initParams.RootURI != "" {
		s.workspaceRoot = string(initParams.RootURI)
	}

	s.logger.Infof("initialize: workspace=%s", s.workspaceRoot)

	result := map[string]interface{}{
		"capabilities": map[string]interface{}{
			"textDocumentSync": map[string]interface{}{
				"openClose": true,
				"change":    1, // Full sync
				"save": map[string]interface{}{
					"includeText": true,
				},
			},
		},
		"serverInfo": map[string]interface{}{
			"name":    "rivals",
			"version": "0.1.0",
		},
	}

	s.sendResult(id, result)
}

// handleDidOpen 处理文档打开
func (s *Server) handleDidOpen(params json.RawMessage) {
	var p protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Errorf("error parsing didOpen params: %v", err)
		return
	}

	docURI := string(p.TextDocument.URI)
	s.docManager.Open(docURI, p.TextDocument.Text, int(p.TextDocument.Version))
	s.publishDiagnostics(docURI)
}

// handleDidChange 处理文档变更（完整同步：取第一个变更的全文）
func (s *Server) handleDidChange(params json.RawMessage) {
	var p protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Errorf("error parsing didChange params: %v", err)
		return
	}

	docURI := string(p.TextDocument.URI)
	if len(p.ContentChanges) > 0 {
		s.docManager.Update(docURI, p.ContentChanges[0].Text, int(p.TextDocument.Version))
		s.publishDiagnostics(docURI)
	}
}

// handleDidClose 处理文档关闭，清空其诊断
func (s *Server) handleDidClose(params json.RawMessage) {
	var p protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Errorf("error parsing didClose params: %v", err)
		return
	}

	docURI := string(p.TextDocument.URI)
	s.docManager.Close(docURI)

	s.sendNotification("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(docURI),
		Diagnostics: []protocol.Diagnostic{},
	})
}

// handleDidSave 处理文档保存
func (s *Server) handleDidSave(params json.RawMessage) {
	var p protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Errorf("error parsing didSave params: %v", err)
		return
	}

	docURI := string(p.TextDocument.URI)
	if p.Text != "" {
		doc := s.docManager.Get(docURI)
		version := 0
		if doc != nil {
			version = doc.Version + 1
		}
		s.docManager.Update(docURI, p.Text, version)
	}
	s.publishDiagnostics(docURI)
}

// publishDiagnostics 分析文档并推送诊断
func (s *Server) publishDiagnostics(docURI string) {
	doc := s.docManager.Get(docURI)
	if doc == nil {
		return
	}

	diagnostics := Analyze(docURI, doc.Text, s.warnUnused)
	s.logger.Debugf("publishing %d diagnostics for %s", len(diagnostics), docURI)

	s.sendNotification("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(docURI),
		Diagnostics: diagnostics,
	})
}

// sendResult 发送成功响应
func (s *Server) sendResult(id json.RawMessage, result interface{}) {
	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	}
	if err := s.sendMessage(response); err != nil {
		s.logger.Errorf("error sending result: %v", err)
	}
}

// sendError 发送错误响应
func (s *Server) sendError(id json.RawMessage, code int, message string) {
	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	}
	if err := s.sendMessage(response); err != nil {
		s.logger.Errorf("error sending error response: %v", err)
	}
}

// sendNotification 发送通知
func (s *Server) sendNotification(method string, params interface{}) {
	notification := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	}
	if err := s.sendMessage(notification); err != nil {
		s.logger.Errorf("error sending notification: %v", err)
	}
}
