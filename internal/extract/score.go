package extract

import (
	"fmt"

	"github.com/ppiankov/ubkifeat/internal/document"
	"github.com/ppiankov/ubkifeat/internal/model"
	"github.com/ppiankov/ubkifeat/internal/normalize"
)

// CompRating identifies the credit rating component of a score document
const CompRating = "8"

var ratingFields = []attrField{
	{"@score", model.Score},
	{"@scorelast", model.ScoreLast},
	{"@scorelevel", model.ScoreLevel},
}

var creditCountFields = []attrField{
	{"@all", model.AllCredits},
	{"@open", model.OpenCredits},
	{"@close", model.ClosedCredits},
}

// ScoreExtractor extracts rating features from a credit score document.
// Unlike ReportExtractor it is all-or-nothing: any failure yields the
// all-nil mapping.
type ScoreExtractor struct{}

// NewScoreExtractor creates a new score extractor
func NewScoreExtractor() *ScoreExtractor {
	return &ScoreExtractor{}
}

// Extract returns a fully-keyed feature mapping and the issue that emptied
// it, if any
func (e *ScoreExtractor) Extract(doc *document.Node) (*model.Features, []model.Issue) {
	res := model.NewFeatures(model.ScoreSchema)
	if doc.IsEmpty() {
		return res, nil
	}

	log := newIssueLog(model.ExtractorScore)
	if err := e.extract(doc, res); err != nil {
		res.Reset()
		log.fail(SectionRating, "", err)
	}
	return res, log.issues
}

func (e *ScoreExtractor) extract(doc *document.Node, res *model.Features) error {
	data := dataNode(doc)
	if data == nil {
		return errNoData
	}

	for i, comp := range data.Children("comp") {
		id, ok := comp.Attr("@id")
		if !ok {
			return fmt.Errorf("component %d id: %w", i, errMissing)
		}
		if id == CompRating {
			// Only the first rating block is consulted.
			return e.rating(comp, res)
		}
	}
	return nil
}

func (e *ScoreExtractor) rating(comp *document.Node, res *model.Features) error {
	rating, err := requireChild(comp, "urating")
	if err != nil {
		return err
	}
	if err := setInts(rating, ratingFields, res); err != nil {
		return err
	}

	dinfo, err := requireChild(rating, "dinfo")
	if err != nil {
		return err
	}
	if err := setInts(dinfo, creditCountFields, res); err != nil {
		return err
	}

	expyear, err := requireAttr(dinfo, "@expyear")
	if err != nil {
		return err
	}
	if normalize.IsPresent(expyear) {
		res.Set(model.OverdueYear, float64(normalize.EncodeYesNo(expyear)))
	}

	maxnowexp, err := requireAttr(dinfo, "@maxnowexp")
	if err != nil {
		return err
	}
	if normalize.IsPresent(maxnowexp) {
		v, err := normalize.ToInt(normalize.EncodeMagnitudeOrAbsent(maxnowexp))
		if err != nil {
			return fmt.Errorf("@maxnowexp: %w", err)
		}
		res.Set(model.MaxNowOverdue, v)
	}

	return nil
}

func setInts(n *document.Node, fields []attrField, res *model.Features) error {
	for _, f := range fields {
		v, ok, err := requiredInt(n, f.attr)
		if err != nil {
			return err
		}
		if ok {
			res.Set(f.key, v)
		}
	}
	return nil
}
