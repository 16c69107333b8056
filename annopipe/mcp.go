package annopipe

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/ancrage/anchor"
	"github.com/hazyhaar/ancrage/kit"
	"github.com/hazyhaar/ancrage/selector"
)

// RegisterMCP registers the pipeline's tools on an MCP server.
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	p.registerAnchorTool(srv)
	p.registerSegmentsTool(srv)
	p.registerVerifyTool(srv)
	p.registerExtractTool(srv)
}

// annotationsSchema is the shared "annotations" argument description.
var annotationsSchema = map[string]any{
	"type":        "array",
	"description": "Web Annotation objects: {id, target:{selector}} with TextPositionSelector/TextQuoteSelector",
}

// --- anchor ---

type anchorReq struct {
	Document    string          `json:"document"`
	Annotations json.RawMessage `json:"annotations"`
}

type anchoredAnnotation struct {
	ID       string        `json:"id"`
	Anchored bool          `json:"anchored"`
	Range    *anchor.Range `json:"range,omitempty"`
}

func (p *Pipeline) registerAnchorTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "ancrage_anchor",
		Description: "Resolve annotation selectors against a document, returning the byte range of each annotation.",
		InputSchema: kit.InputSchema(map[string]any{
			"document":    map[string]any{"type": "string", "description": "Full document text"},
			"annotations": annotationsSchema,
		}, []string{"document", "annotations"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*anchorReq)
		anns, err := selector.DecodeAnnotations(r.Annotations)
		if err != nil {
			return nil, err
		}
		resolved := p.Anchor(r.Document, anns)
		out := make([]anchoredAnnotation, 0, len(resolved))
		for _, a := range resolved {
			out = append(out, anchoredAnnotation{ID: a.ID, Anchored: a.Range != nil, Range: a.Range})
		}
		return out, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeJSON[anchorReq])
}

// --- segments ---

func (p *Pipeline) registerSegmentsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "ancrage_segments",
		Description: "Anchor annotations and partition the document into an ordered list of plain and annotated text segments.",
		InputSchema: kit.InputSchema(map[string]any{
			"document":    map[string]any{"type": "string", "description": "Full document text"},
			"annotations": annotationsSchema,
		}, []string{"document", "annotations"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*anchorReq)
		anns, err := selector.DecodeAnnotations(r.Annotations)
		if err != nil {
			return nil, err
		}
		return p.Segments(r.Document, anns), nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeJSON[anchorReq])
}

// --- verify ---

type verifyReq struct {
	Document string `json:"document"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Exact    string `json:"exact"`
}

func (p *Pipeline) registerVerifyTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "ancrage_verify",
		Description: "Check whether a position selector's range still slices to the recorded exact text (stale-offset detection).",
		InputSchema: kit.InputSchema(map[string]any{
			"document": map[string]any{"type": "string", "description": "Full document text"},
			"start":    map[string]any{"type": "integer", "description": "Range start (byte offset)"},
			"end":      map[string]any{"type": "integer", "description": "Range end (byte offset, exclusive)"},
			"exact":    map[string]any{"type": "string", "description": "Expected exact text"},
		}, []string{"document", "start", "end", "exact"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*verifyReq)
		ok := anchor.Verify(r.Document, anchor.Range{Start: r.Start, End: r.End}, r.Exact)
		return map[string]any{"ok": ok}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeJSON[verifyReq])
}

// --- extract ---

type extractReq struct {
	Path string `json:"path"`
}

func (p *Pipeline) registerExtractTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "ancrage_extract",
		Description: "Produce the anchorable text for a document file (txt, md, html, pdf).",
		InputSchema: kit.InputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "Document file path"},
		}, []string{"path"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*extractReq)
		return p.LoadText(ctx, r.Path)
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeJSON[extractReq])
}

func decodeJSON[T any](raw json.RawMessage) (any, error) {
	var r T
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
