package builder

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/document"
	"github.com/docugraph/backend/pkg/graph"
	"github.com/docugraph/backend/pkg/logger"
	"github.com/docugraph/backend/pkg/reference"
)

// BuildStatus reports how a build ended. Sparse or degenerate input is
// never an error; BuildStatusError is reserved for internal faults.
type BuildStatus string

const (
	BuildStatusComplete BuildStatus = "complete"
	BuildStatusError    BuildStatus = "error"
)

// BuildMetadata records the outcome of one build pass.
type BuildMetadata struct {
	Status  BuildStatus   `json:"status"`
	Elapsed time.Duration `json:"elapsed"`
	Pages   int           `json:"pages"`
	Error   string        `json:"error,omitempty"`
}

// BuildParams is the input of one build: the parsed document plus the
// optional table and image side channels.
type BuildParams struct {
	Document document.Document
	Tables   []document.TableCandidate
	Images   []document.ImageCandidate
}

// BuildResult is a populated graph and its build metadata.
type BuildResult struct {
	Graph    *graph.Graph  `json:"-"`
	Metadata BuildMetadata `json:"metadata"`
}

var (
	sectionNumberRe = regexp.MustCompile(`^(\d+(?:\.\d+)*)\b`)
	figureNumberRe  = regexp.MustCompile(`(?i)\b(?:figure|fig\.?)\s*(\d+[a-z]?)`)
	tableNumberRe   = regexp.MustCompile(`(?i)\btable\s*(\d+[a-z]?)`)
)

// openSection is one entry of the heading scope stack. A section stays
// open until a heading of equal or greater height closes it.
type openSection struct {
	id     string
	height float64
}

// buildState carries the per-build bookkeeping: the scope stack, the
// paragraph chain, and the last section seen per page for candidate
// attachment.
type buildState struct {
	rootID            string
	sections          []openSection
	paragraphIDs      []string
	lastSectionByPage map[int]string
}

func (s *buildState) parentID() string {
	if len(s.sections) > 0 {
		return s.sections[len(s.sections)-1].id
	}
	return s.rootID
}

// Build constructs a complete knowledge graph from the parsed document,
// then detects and resolves cross-references over every text node. The
// graph in the result is populated even when an internal fault aborts
// the build early.
func (c *Client) Build(params BuildParams) (*BuildResult, error) {
	started := time.Now()
	g := graph.New()

	logger.Debug("[Builder] Starting build", "pages", len(params.Document.Pages))

	err := c.buildStructure(g, params)
	if err == nil {
		err = c.materializeReferences(g)
	}
	if err != nil {
		return &BuildResult{
			Graph: g,
			Metadata: BuildMetadata{
				Status:  BuildStatusError,
				Elapsed: time.Since(started),
				Pages:   len(params.Document.Pages),
				Error:   err.Error(),
			},
		}, err
	}

	stats := g.Statistics()
	logger.Info("[Builder] Build completed",
		"nodes", stats.NodeCount,
		"edges", stats.EdgeCount,
		"references", stats.EdgesByKind[common.EdgeKindReferences],
	)

	return &BuildResult{
		Graph: g,
		Metadata: BuildMetadata{
			Status:  BuildStatusComplete,
			Elapsed: time.Since(started),
			Pages:   len(params.Document.Pages),
		},
	}, nil
}

func (c *Client) buildStructure(g *graph.Graph, params BuildParams) error {
	doc := params.Document

	rootID, err := c.addRoot(g, doc.Metadata)
	if err != nil {
		return err
	}

	state := &buildState{
		rootID:            rootID,
		lastSectionByPage: make(map[int]string),
	}

	for _, page := range doc.Pages {
		if err := c.buildPage(g, state, page); err != nil {
			return err
		}
	}

	if err := c.chainParagraphs(g, state.paragraphIDs); err != nil {
		return err
	}

	for _, table := range params.Tables {
		if err := c.addTable(g, state, table); err != nil {
			return err
		}
	}
	for _, image := range params.Images {
		if err := c.addImage(g, state, image); err != nil {
			return err
		}
	}

	return nil
}

func (c *Client) addRoot(g *graph.Graph, meta document.Metadata) (string, error) {
	label := meta.Title
	if label == "" {
		label = "Untitled Document"
	}

	props := map[string]any{
		"page_count": meta.PageCount,
		"file_size":  meta.FileSize,
	}
	if meta.Title != "" {
		props["title"] = meta.Title
	}
	if meta.Author != "" {
		props["author"] = meta.Author
	}

	content := ""
	root, err := common.NewNode(common.NewNodeParams{
		Kind:       common.NodeKindDocument,
		Label:      label,
		Content:    &content,
		Position:   common.Position{Page: 1, Start: 0, End: 1},
		Properties: props,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create document root: %w", err)
	}
	if err := g.AddNode(root); err != nil {
		return "", err
	}
	return root.ID, nil
}

func (c *Client) buildPage(g *graph.Graph, state *buildState, page document.Page) error {
	if err := c.addPageMetadata(g, state.rootID, page); err != nil {
		return err
	}

	headings := detectHeadings(page, c.headingRatio, c.shortHeadingMax)

	paragraphs := page.Paragraphs
	if len(paragraphs) == 0 {
		// Pages are never silently dropped: synthesize one paragraph
		// from the raw page text.
		paragraphs = []document.Paragraph{{
			Page:    page.Number,
			Content: page.Text,
			Start:   0,
			End:     maxInt(1, len(page.Text)),
		}}
	}

	// Interleave headings and paragraphs by page offset so each
	// paragraph attaches to the section open at its position.
	hi := 0
	for _, para := range paragraphs {
		for hi < len(headings) && headings[hi].offset <= para.Start {
			if err := c.openHeading(g, state, page.Number, headings[hi]); err != nil {
				return err
			}
			hi++
		}
		if err := c.addParagraph(g, state, page.Number, para); err != nil {
			return err
		}
	}
	for ; hi < len(headings); hi++ {
		if err := c.openHeading(g, state, page.Number, headings[hi]); err != nil {
			return err
		}
	}

	return nil
}

func (c *Client) addPageMetadata(g *graph.Graph, rootID string, page document.Page) error {
	content := ""
	node, err := common.NewNode(common.NewNodeParams{
		Kind:    common.NodeKindMetadata,
		Label:   fmt.Sprintf("Page %d", page.Number),
		Content: &content,
		Position: common.Position{
			Page:  page.Number,
			Start: 0,
			End:   maxInt(1, len(page.Text)),
		},
		Properties: map[string]any{
			"page_number": page.Number,
			"text_length": len(page.Text),
			"runs":        len(page.Runs),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create page metadata node: %w", err)
	}
	if err := g.AddNode(node); err != nil {
		return err
	}
	return c.contains(g, rootID, node.ID)
}

// openHeading closes every open section the new heading supersedes,
// creates the section node, and pushes it onto the scope stack.
func (c *Client) openHeading(g *graph.Graph, state *buildState, pageNum int, h heading) error {
	for len(state.sections) > 0 {
		top := state.sections[len(state.sections)-1]
		if top.height < h.height || similarHeight(top.height, h.height) {
			state.sections = state.sections[:len(state.sections)-1]
			continue
		}
		break
	}
	parent := state.parentID()

	props := map[string]any{}
	if m := sectionNumberRe.FindStringSubmatch(strings.TrimSpace(h.text)); m != nil {
		props[common.PropSectionNumber] = m[1]
	}

	content := h.text
	node, err := common.NewNode(common.NewNodeParams{
		Kind:    common.NodeKindSection,
		Label:   labelFromText(h.text, "Section"),
		Content: &content,
		Position: common.Position{
			Page:  pageNum,
			Start: h.offset,
			End:   h.offset + maxInt(1, len(h.text)),
		},
		Properties: props,
	})
	if err != nil {
		return fmt.Errorf("failed to create section node: %w", err)
	}
	if err := g.AddNode(node); err != nil {
		return err
	}
	if err := c.contains(g, parent, node.ID); err != nil {
		return err
	}

	state.sections = append(state.sections, openSection{id: node.ID, height: h.height})
	state.lastSectionByPage[pageNum] = node.ID
	return nil
}

func (c *Client) addParagraph(g *graph.Graph, state *buildState, pageNum int, para document.Paragraph) error {
	page := para.Page
	if page < 1 {
		page = pageNum
	}
	start, end := normalizeSpan(para.Start, para.End, len(para.Content))

	content := para.Content
	node, err := common.NewNode(common.NewNodeParams{
		Kind:       common.NodeKindParagraph,
		Label:      labelFromText(para.Content, "Paragraph"),
		Content:    &content,
		Position:   common.Position{Page: page, Start: start, End: end},
		Confidence: para.Confidence,
	})
	if err != nil {
		return fmt.Errorf("failed to create paragraph node: %w", err)
	}
	if err := g.AddNode(node); err != nil {
		return err
	}
	if err := c.contains(g, state.parentID(), node.ID); err != nil {
		return err
	}

	state.paragraphIDs = append(state.paragraphIDs, node.ID)
	return nil
}

// chainParagraphs links each paragraph to the next in reading order:
// exactly max(0, P-1) follows edges forming one linear chain.
func (c *Client) chainParagraphs(g *graph.Graph, paragraphIDs []string) error {
	for i := 0; i+1 < len(paragraphIDs); i++ {
		edge, err := common.NewEdge(common.NewEdgeParams{
			Source: paragraphIDs[i],
			Target: paragraphIDs[i+1],
			Kind:   common.EdgeKindFollows,
		})
		if err != nil {
			return fmt.Errorf("failed to create follows edge: %w", err)
		}
		if err := g.AddEdge(edge); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) addTable(g *graph.Graph, state *buildState, table document.TableCandidate) error {
	props := map[string]any{}
	if table.Rows > 0 {
		props["rows"] = table.Rows
	}
	if table.Cols > 0 {
		props["cols"] = table.Cols
	}
	if table.Method != "" {
		props["extraction_method"] = table.Method
	}
	if m := tableNumberRe.FindStringSubmatch(table.Content); m != nil {
		props[common.PropTableNumber] = m[1]
	}

	start, end := normalizeSpan(table.Start, table.End, len(table.Content))
	content := table.Content
	node, err := common.NewNode(common.NewNodeParams{
		Kind:       common.NodeKindTable,
		Label:      labelFromText(table.Content, fmt.Sprintf("Table (page %d)", table.Page)),
		Content:    &content,
		Position:   common.Position{Page: table.Page, Start: start, End: end},
		Confidence: table.Confidence,
		Properties: props,
	})
	if err != nil {
		return fmt.Errorf("failed to create table node: %w", err)
	}
	if err := g.AddNode(node); err != nil {
		return err
	}
	return c.contains(g, c.candidateParent(state, table.Page), node.ID)
}

func (c *Client) addImage(g *graph.Graph, state *buildState, image document.ImageCandidate) error {
	props := map[string]any{}
	if image.Width > 0 {
		props["width"] = image.Width
	}
	if image.Height > 0 {
		props["height"] = image.Height
	}
	if image.Method != "" {
		props["extraction_method"] = image.Method
	}
	if m := figureNumberRe.FindStringSubmatch(image.Caption); m != nil {
		props[common.PropFigureNumber] = m[1]
	}

	start, end := normalizeSpan(image.Start, image.End, len(image.Caption))
	content := image.Caption
	node, err := common.NewNode(common.NewNodeParams{
		Kind:       common.NodeKindImage,
		Label:      labelFromText(image.Caption, fmt.Sprintf("Image (page %d)", image.Page)),
		Content:    &content,
		Position:   common.Position{Page: image.Page, Start: start, End: end},
		Confidence: image.Confidence,
		Properties: props,
	})
	if err != nil {
		return fmt.Errorf("failed to create image node: %w", err)
	}
	if err := g.AddNode(node); err != nil {
		return err
	}
	return c.contains(g, c.candidateParent(state, image.Page), node.ID)
}

// candidateParent picks where a table or image attaches: the last
// section of its reported page, or the document root. Candidates
// spanning multiple pages attach to the single page reported,
// first page wins.
func (c *Client) candidateParent(state *buildState, page int) string {
	if sectionID, ok := state.lastSectionByPage[page]; ok {
		return sectionID
	}
	return state.rootID
}

func (c *Client) contains(g *graph.Graph, parentID, childID string) error {
	edge, err := common.NewEdge(common.NewEdgeParams{
		Source: parentID,
		Target: childID,
		Kind:   common.EdgeKindContains,
	})
	if err != nil {
		return fmt.Errorf("failed to create contains edge: %w", err)
	}
	return g.AddEdge(edge)
}

// materializeReferences runs detection and resolution over every text
// node and appends a references edge for each resolution with a
// non-nil target.
func (c *Client) materializeReferences(g *graph.Graph) error {
	for _, node := range g.Nodes() {
		if !reference.IsTextual(node.Kind) {
			continue
		}

		analysis, err := c.detector.AnalyzeNode(node)
		if err != nil {
			continue
		}

		for _, res := range c.resolver.ResolveAll(g, node, analysis.References) {
			if !res.Resolved() || res.Target.ID == node.ID {
				continue
			}
			edge, err := common.NewEdge(common.NewEdgeParams{
				Source: node.ID,
				Target: res.Target.ID,
				Kind:   common.EdgeKindReferences,
				Weight: res.Confidence,
				Metadata: &common.EdgeMetadata{
					Context: res.Reference.Context,
				},
			})
			if err != nil {
				return fmt.Errorf("failed to create references edge: %w", err)
			}
			if err := g.AddEdge(edge); err != nil {
				return err
			}
		}
	}
	return nil
}

func labelFromText(text, fallback string) string {
	label := strings.Join(strings.Fields(text), " ")
	if label == "" {
		return fallback
	}
	if len(label) > 60 {
		label = strings.TrimSpace(label[:57]) + "..."
	}
	return label
}

func normalizeSpan(start, end, contentLen int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end <= start {
		end = start + maxInt(1, contentLen)
	}
	return start, end
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
