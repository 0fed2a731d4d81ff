package server

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Tool names.
const (
	ToolRecognize      = "frame_recognize"
	ToolCheckContent   = "frame_check_content"
	ToolColorStats     = "frame_color_stats"
	ToolEdgeMetrics    = "frame_edge_metrics"
	ToolEdgeMap        = "frame_edge_map"
	ToolClassify       = "frame_classify"
	ToolDominantColors = "frame_dominant_colors"
	ToolFrameInfo      = "frame_info"
	ToolTopicsList     = "topics_list"
)

const (
	maxCropSize      = 2048
	defaultColors    = 5
	maxColors        = 20
	topicDescription = "Topic id or title: earth, brain, heart (or \"Planet Earth\", \"Human Brain\", \"Human Heart\")"
)

func pathArg() mcp.ToolOption {
	return mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Absolute path to the image file used as the captured camera frame"),
	)
}

func cropSizeArg() mcp.ToolOption {
	return mcp.WithNumber("crop_size",
		mcp.Description("Side of the centred square that is analysed, in pixels. Defaults to the configured capture size"),
		mcp.Min(1),
		mcp.Max(maxCropSize),
	)
}

func topicArg() mcp.ToolOption {
	return mcp.WithString("topic",
		mcp.Required(),
		mcp.Description(topicDescription),
	)
}

// tools returns every tool the server exposes bound to its handler.
func (s *Server) tools() []mcpserver.ServerTool {
	return []mcpserver.ServerTool{
		{
			Tool: mcp.NewTool(ToolRecognize,
				mcp.WithDescription("Run one recognition attempt: crop the centre of the frame, reject blank input, "+
					"then decide whether it shows the topic. Returns the outcome, confidence, explanation and diagnostics."),
				pathArg(),
				topicArg(),
				cropSizeArg(),
				mcp.WithBoolean("include_image",
					mcp.Description("Include the analysed crop as a data: URL (default false)"),
				),
			),
			Handler: s.handleFrameRecognize,
		},
		{
			Tool: mcp.NewTool(ToolCheckContent,
				mcp.WithDescription("Check whether the cropped frame has enough variation to be worth analysing."),
				mcp.WithReadOnlyHintAnnotation(true),
				pathArg(),
				cropSizeArg(),
			),
			Handler: s.handleCheckContent,
		},
		{
			Tool: mcp.NewTool(ToolColorStats,
				mcp.WithDescription("Colour ratios behind the Earth, Heart and brain-shape rules, with the colour verdicts."),
				mcp.WithReadOnlyHintAnnotation(true),
				pathArg(),
				cropSizeArg(),
			),
			Handler: s.handleColorStats,
		},
		{
			Tool: mcp.NewTool(ToolEdgeMetrics,
				mcp.WithDescription("Edge density, roundness and complexity of the cropped frame, with the brain shape verdict."),
				mcp.WithReadOnlyHintAnnotation(true),
				pathArg(),
				cropSizeArg(),
			),
			Handler: s.handleEdgeMetrics,
		},
		{
			Tool: mcp.NewTool(ToolEdgeMap,
				mcp.WithDescription("Render the edge pixels of the cropped frame as a PNG (white edges on black)."),
				mcp.WithReadOnlyHintAnnotation(true),
				pathArg(),
				cropSizeArg(),
			),
			Handler: s.handleEdgeMap,
		},
		{
			Tool: mcp.NewTool(ToolClassify,
				mcp.WithDescription("Ask the configured classifier about the cropped frame and match its labels against the topic keywords. "+
					"Never waits for the classifier to load."),
				pathArg(),
				topicArg(),
				cropSizeArg(),
			),
			Handler: s.handleClassify,
		},
		{
			Tool: mcp.NewTool(ToolDominantColors,
				mcp.WithDescription("Most frequent colours of the cropped frame after quantisation."),
				mcp.WithReadOnlyHintAnnotation(true),
				pathArg(),
				cropSizeArg(),
				mcp.WithNumber("count",
					mcp.Description("Number of colours to return (default 5, max 20)"),
					mcp.DefaultNumber(defaultColors),
					mcp.Min(1),
					mcp.Max(maxColors),
				),
			),
			Handler: s.handleDominantColors,
		},
		{
			Tool: mcp.NewTool(ToolFrameInfo,
				mcp.WithDescription("Frame dimensions, format and the square that would be cropped from it."),
				mcp.WithReadOnlyHintAnnotation(true),
				pathArg(),
				cropSizeArg(),
			),
			Handler: s.handleFrameInfo,
		},
		{
			Tool: mcp.NewTool(ToolTopicsList,
				mcp.WithDescription("List the recognisable topics with their hints and 3D model paths."),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: s.handleTopicsList,
		},
	}
}
