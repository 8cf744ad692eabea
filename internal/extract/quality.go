package extract

import (
	"github.com/brandlens/sitescan/internal/htmldoc"
	"github.com/brandlens/sitescan/internal/model"
)

// Content-quality scoring weights. Word count carries the most weight
// because substance is the strongest quality signal available without
// rendering.
const (
	qualityWordTarget = 600.0
	wordCountWeight   = 50.0
	headingWeight     = 25.0
	altCoverageWeight = 25.0
)

// QualityExtractor rates the substance of the page content.
type QualityExtractor struct{}

// NewQualityExtractor creates a new QualityExtractor.
func NewQualityExtractor() *QualityExtractor {
	return &QualityExtractor{}
}

// Name returns the extractor name.
func (x *QualityExtractor) Name() string {
	return "quality"
}

// Extract fills the quality section of the extraction.
func (x *QualityExtractor) Extract(doc *htmldoc.Document, _ Input, out *model.PageExtraction) error {
	words := doc.WordCount()
	headings := doc.Headings()
	images := doc.Images()

	quality := &model.ContentQuality{
		WordCount:   words,
		HasHeadings: len(headings) > 0,
	}

	withAlt := 0
	for _, img := range images {
		if img.Alt != "" {
			withAlt++
		}
	}
	if len(images) > 0 {
		quality.AltCoverage = float64(withAlt) / float64(len(images))
	} else {
		// No images means nothing to penalize.
		quality.AltCoverage = 1
	}

	wordScore := float64(words) / qualityWordTarget
	if wordScore > 1 {
		wordScore = 1
	}
	score := wordScore * wordCountWeight
	if quality.HasHeadings {
		score += headingWeight
	}
	score += quality.AltCoverage * altCoverageWeight
	quality.Score = score

	out.Quality = quality
	return nil
}

// Ensure QualityExtractor implements Extractor.
var _ Extractor = (*QualityExtractor)(nil)
