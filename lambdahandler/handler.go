// Package lambdahandler exposes the story tools as an AWS Lambda handler.
package lambdahandler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/tiny-tales/mcpserver"
	"github.com/SaiNageswarS/tiny-tales/translate"
	"go.uber.org/zap"
)

// WarmupSource identifies scheduled keep-warm events.
const WarmupSource = "warmup"

// Request names the tool to run.
type Request struct {
	Tool string `json:"tool"`
	Lang string `json:"lang,omitempty"`
}

// Response carries the story, or Error when the tool failed.
type Response struct {
	Story       string            `json:"story,omitempty"`
	StoryID     int               `json:"story_id,omitempty"`
	Translation *translate.Result `json:"translation,omitempty"`
	Error       string            `json:"error,omitempty"`
}

type Handler struct {
	teller mcpserver.StoryTeller
}

func New(teller mcpserver.StoryTeller) *Handler {
	return &Handler{teller: teller}
}

// Handle runs one tool. Tool failures are reported in Response.Error, not as a Lambda error.
func (h *Handler) Handle(ctx context.Context, req Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return &Response{Error: err.Error()}, nil
	}

	switch req.Tool {
	case mcpserver.ToolRandomStoryInEnglish:
		sc, err := h.teller.RandomStoryInEnglish(ctx)
		if err != nil {
			return failed(req, err), nil
		}
		return &Response{Story: sc.CurrentStory, StoryID: sc.StoryID}, nil

	default:
		sc, result, err := h.teller.StoryInOtherLanguage(ctx, req.Lang)
		if err != nil {
			return failed(req, err), nil
		}
		return &Response{Story: sc.CurrentStory, StoryID: sc.StoryID, Translation: &result}, nil
	}
}

// HandleEvent answers keep-warm pings and otherwise decodes the event into a Request.
func (h *Handler) HandleEvent(ctx context.Context, event json.RawMessage) (any, error) {
	if isWarmupEvent(event) {
		return map[string]any{"statusCode": 200, "status": "warm"}, nil
	}

	var req Request
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return h.Handle(ctx, req)
}

func validateRequest(req Request) error {
	switch req.Tool {
	case "":
		return fmt.Errorf("tool is required")
	case mcpserver.ToolRandomStoryInEnglish:
		return nil
	case mcpserver.ToolStoryInOtherLanguages:
		if req.Lang == "" {
			return fmt.Errorf("lang is required for %s", mcpserver.ToolStoryInOtherLanguages)
		}
		return nil
	default:
		return fmt.Errorf("unknown tool %q", req.Tool)
	}
}

func failed(req Request, err error) *Response {
	logger.Error("Story tool failed", zap.String("tool", req.Tool), zap.String("lang", req.Lang), zap.Error(err))
	return &Response{Error: err.Error()}
}

func isWarmupEvent(event json.RawMessage) bool {
	var probe struct {
		Source string `json:"source"`
	}
	if err := json.Unmarshal(event, &probe); err != nil {
		return false
	}
	return probe.Source == WarmupSource
}
