package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BerylCAtieno/event-ideas-agent/internal/agent"
	"github.com/BerylCAtieno/event-ideas-agent/internal/workflow"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IdeaGenerator runs the ideation workflow for one event description.
type IdeaGenerator interface {
	Generate(ctx context.Context, description string) (string, error)
}

type A2AHandler struct {
	generator IdeaGenerator
	log       *zap.Logger
}

func NewA2AHandler(generator IdeaGenerator, log *zap.Logger) *A2AHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &A2AHandler{
		generator: generator,
		log:       log.Named("a2a"),
	}
}

// RequestLoggingMiddleware logs every request and its response status. Bodies
// are only logged at debug level.
func RequestLoggingMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		if log.Core().Enabled(zap.DebugLevel) && c.Request.Body != nil {
			bodyBytes, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			log.Debug("incoming request body",
				zap.String("path", c.Request.URL.Path),
				zap.ByteString("body", bodyBytes),
			)
		}

		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("client", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// HandleIdeas processes A2A messages
func (h *A2AHandler) HandleIdeas(c *gin.Context) {
	bodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.log.Error("failed to read request body", zap.Error(err))
		h.sendErrorResponse(c, nil, "Failed to read request body", CodeParseError)
		return
	}

	var rpcReq JSONRPCRequest
	if err := json.Unmarshal(bodyBytes, &rpcReq); err != nil {
		h.log.Debug("body is not a JSON-RPC request, trying direct message", zap.Error(err))
		h.handleDirectMessage(c, bodyBytes)
		return
	}

	// A bare message body decodes into an empty envelope.
	if rpcReq.JSONRPC == "" && rpcReq.Method == "" {
		h.handleDirectMessage(c, bodyBytes)
		return
	}

	if rpcReq.JSONRPC != "2.0" {
		h.log.Warn("invalid JSON-RPC version", zap.String("jsonrpc", rpcReq.JSONRPC))
		h.sendErrorResponse(c, rpcReq.ID, "Invalid JSON-RPC version", CodeInvalidRequest)
		return
	}

	switch rpcReq.Method {
	case "agent/task", "message/send":
		h.handleTask(c, rpcReq)
	default:
		h.log.Warn("unknown method", zap.String("method", rpcReq.Method))
		h.sendErrorResponse(c, rpcReq.ID, fmt.Sprintf("Method not found: %s", rpcReq.Method), CodeMethodNotFound)
	}
}

func (h *A2AHandler) handleDirectMessage(c *gin.Context, bodyBytes []byte) {
	var msgParams MessageParams
	if err := json.Unmarshal(bodyBytes, &msgParams); err != nil {
		h.log.Warn("failed to parse direct message", zap.Error(err))
		h.sendErrorResponse(c, nil, "Invalid request format", CodeParseError)
		return
	}

	h.respond(c, nil, "direct-message", msgParams)
}

func (h *A2AHandler) handleTask(c *gin.Context, rpcReq JSONRPCRequest) {
	paramsJSON, err := json.Marshal(rpcReq.Params)
	if err != nil {
		h.log.Warn("failed to marshal params", zap.Error(err))
		h.sendErrorResponse(c, rpcReq.ID, "Failed to parse parameters", CodeInvalidParams)
		return
	}

	var msgParams MessageParams
	if err := json.Unmarshal(paramsJSON, &msgParams); err != nil {
		h.log.Warn("invalid params", zap.Error(err))
		h.sendErrorResponse(c, rpcReq.ID, "Invalid parameters", CodeInvalidParams)
		return
	}

	h.respond(c, rpcReq.ID, taskIDFor(rpcReq.ID), msgParams)
}

// respond runs the workflow. Workflow failures are task states, not JSON-RPC
// errors.
func (h *A2AHandler) respond(c *gin.Context, id json.RawMessage, taskID string, msgParams MessageParams) {
	description := h.extractDescription(msgParams.Message)
	h.log.Info("generating event ideas",
		zap.String("task_id", taskID),
		zap.Int("description_len", len(description)),
	)

	ideasMD, err := h.generator.Generate(c.Request.Context(), description)
	if err != nil {
		h.log.Warn("workflow failed", zap.String("task_id", taskID), zap.Error(err))
		h.sendSuccessResponse(c, id, h.createErrorTaskResult(taskID, workflow.Message(err)))
		return
	}

	h.sendSuccessResponse(c, id, h.createSuccessTaskResult(taskID, ideasMD))
}

// taskIDFor turns a JSON-RPC id into a task id: strings are unquoted, numbers
// keep their literal text, and a missing or null id gets a fresh uuid.
func taskIDFor(id json.RawMessage) string {
	raw := strings.TrimSpace(string(id))
	if raw == "" || raw == "null" {
		return uuid.New().String()
	}
	var s string
	if err := json.Unmarshal(id, &s); err == nil {
		return s
	}
	return raw
}

// ServeAgentCard serves the agent card using Gin
func (h *A2AHandler) ServeAgentCard(c *gin.Context) {
	if err := agent.LoadAgentCard(); err != nil {
		h.log.Error("error loading agent card", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Agent card not available"})
		return
	}

	c.Data(http.StatusOK, "application/json", agent.AgentCardData)
}

// extractDescription joins the text parts of msg. Data parts carrying a
// conversation history contribute their most recent user text.
func (h *A2AHandler) extractDescription(msg A2AMessage) string {
	var texts []string

	for _, part := range msg.Parts {
		if part.Kind == "text" && part.Text != nil {
			if textStr, ok := part.Text.(string); ok && textStr != "" {
				texts = append(texts, textStr)
			}
		}

		if part.Kind == "data" && part.Data != nil {
			if text := h.latestHistoryText(part.Data); text != "" {
				texts = append(texts, text)
			}
		}
	}

	return strings.TrimSpace(strings.Join(texts, " "))
}

func (h *A2AHandler) latestHistoryText(data interface{}) string {
	var history []map[string]interface{}

	switch v := data.(type) {
	case []interface{}:
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok {
				history = append(history, m)
			}
		}
	case string:
		if err := json.Unmarshal([]byte(v), &history); err != nil {
			h.log.Debug("data part is not a message history", zap.Error(err))
			return ""
		}
	default:
		return ""
	}

	for i := len(history) - 1; i >= 0; i-- {
		item := history[i]
		if kind, _ := item["kind"].(string); kind != "text" {
			continue
		}
		text, _ := item["text"].(string)
		text = strings.TrimSpace(strings.NewReplacer("<p>", "", "</p>", "").Replace(text))
		if text == "" || isProgressNote(text) {
			continue
		}
		return text
	}
	return ""
}

// isProgressNote reports agent status chatter that platforms echo back into
// the history.
func isProgressNote(text string) bool {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "generating") || strings.Contains(lower, "creating") {
		return true
	}
	return strings.Trim(text, ".") == ""
}

func (h *A2AHandler) createSuccessTaskResult(taskID string, ideasMD string) TaskResult {
	return TaskResult{
		ID:   taskID,
		Kind: "task",
		Status: TaskStatus{
			State:     StateCompleted,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.New().String(),
				TaskID:    taskID,
				Parts: []MessagePart{
					TextPart(ideasMD),
				},
			},
		},
		Artifacts: []Artifact{
			{
				ArtifactID: uuid.New().String(),
				Name:       "Event Ideas",
				Parts: []MessagePart{
					TextPart(ideasMD),
				},
			},
		},
	}
}

func (h *A2AHandler) createErrorTaskResult(taskID string, errorMsg string) TaskResult {
	return TaskResult{
		ID:   taskID,
		Kind: "task",
		Status: TaskStatus{
			State:     StateFailed,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.New().String(),
				TaskID:    taskID,
				Parts: []MessagePart{
					TextPart(errorMsg),
				},
			},
		},
	}
}

func (h *A2AHandler) sendSuccessResponse(c *gin.Context, id json.RawMessage, result interface{}) {
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

func (h *A2AHandler) sendErrorResponse(c *gin.Context, id json.RawMessage, message string, code int) {
	h.log.Debug("sending JSON-RPC error", zap.Int("code", code), zap.String("message", message))

	// JSON-RPC errors are sent with 200 OK
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &JSONRPCError{
			Code:    code,
			Message: message,
		},
	})
}
