// Package blendserver exposes the transcript and article pipelines as MCP
// tools for agent consumers.
package blendserver

import (
	"context"
	"fmt"

	"github.com/anatolykoptev/go_blender/internal/engine"
	"github.com/anatolykoptev/go_blender/internal/engine/youtube"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type TranscriptInput struct {
	URL         string `json:"url" jsonschema:"YouTube video URL or bare 11-character video id"`
	AccessToken string `json:"access_token,omitempty" jsonschema:"Optional OAuth bearer token for restricted videos"`
}

type TranscriptOutput struct {
	VideoID    string            `json:"video_id"`
	Transcript string            `json:"transcript"`
	Segments   []youtube.Segment `json:"segments"`
}

type InfoInput struct {
	URL string `json:"url" jsonschema:"YouTube video URL or bare 11-character video id"`
}

type ArticleInput struct {
	URL string `json:"url" jsonschema:"Web page URL to extract readable content from"`
}

// RegisterTools registers the research tools on the given MCP server:
// youtube_transcript, youtube_info, article_extract.
func RegisterTools(server *mcp.Server) {
	registerTranscript(server)
	registerInfo(server)
	registerArticle(server)
}

func registerTranscript(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_transcript",
		Description: "Fetch the transcript of a YouTube video. Accepts any YouTube URL shape or a bare video id. Returns the full transcript text plus timed segments.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input TranscriptInput) (*mcp.CallToolResult, TranscriptOutput, error) {
		if input.URL == "" {
			return nil, TranscriptOutput{}, fmt.Errorf("url is required")
		}
		res, err := youtube.FetchTranscript(ctx, input.URL, input.AccessToken)
		if err != nil {
			return nil, TranscriptOutput{}, fmt.Errorf("%s", youtube.Classify(err, "").Message())
		}
		return nil, TranscriptOutput{
			VideoID:    res.VideoID,
			Transcript: res.FullText,
			Segments:   res.Segments,
		}, nil
	})
}

func registerInfo(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_info",
		Description: "Resolve a YouTube URL or video id to its canonical video id and thumbnail URL. No network calls.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input InfoInput) (*mcp.CallToolResult, youtube.Info, error) {
		if input.URL == "" {
			return nil, youtube.Info{}, fmt.Errorf("url is required")
		}
		info, err := youtube.VideoInfo(input.URL)
		if err != nil {
			return nil, youtube.Info{}, fmt.Errorf("%s", youtube.Classify(err, "").Message())
		}
		return nil, *info, nil
	})
}

func registerArticle(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "article_extract",
		Description: "Extract the title and readable markdown content from a web page. Useful for pulling article text into research context.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input ArticleInput) (*mcp.CallToolResult, engine.Article, error) {
		if input.URL == "" {
			return nil, engine.Article{}, fmt.Errorf("url is required")
		}
		article, err := engine.FetchArticle(ctx, input.URL)
		if err != nil {
			engine.IncrArticleErrors()
			return nil, engine.Article{}, fmt.Errorf("extract article: %w", err)
		}
		return nil, *article, nil
	})
}
