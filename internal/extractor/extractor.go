// Package extractor walks the alarm and signal structures of one data block
// document, derives a custom key for every numbered comment slot and checks
// each comment against the naming convention.
package extractor

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cdtdelta/tiaalarms/internal/model"
	"github.com/cdtdelta/tiaalarms/internal/tiaxml"
)

// Structure names looked up in the static section.
const (
	StructAlm      = "Alm"
	StructAlmLong  = "AlmLong"
	StructAlmShort = "AlmShort"
	StructSign     = model.SignStructure

	// GlobalDBName is the data block that splits alarms into long and short lists.
	GlobalDBName = "GLOBAL"

	// DefaultLanguage selects the comment translation that is extracted.
	DefaultLanguage = "en-US"

	signSubGroupID = 5000
	keyMultiplier  = 10000
)

// Result holds everything extracted from one or more documents, in traversal order.
type Result struct {
	Records  []*model.CommentRecord
	Findings []*model.MissingCommentElement
}

// Append adds other's records and findings after r's own.
func (r *Result) Append(other *Result) {
	if other == nil {
		return
	}
	r.Records = append(r.Records, other.Records...)
	r.Findings = append(r.Findings, other.Findings...)
}

// Extractor turns parsed documents into comment records and findings.
type Extractor struct {
	logger    *zap.Logger
	language  string
	namespace string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLanguage selects the MultiLanguageText entry read as the comment.
func WithLanguage(lang string) Option {
	return func(e *Extractor) {
		if lang != "" {
			e.language = lang
		}
	}
}

// WithFallbackNamespace overrides the namespace used for documents that do
// not declare one.
func WithFallbackNamespace(ns string) Option {
	return func(e *Extractor) {
		if ns != "" {
			e.namespace = ns
		}
	}
}

// New creates an Extractor. A nil logger disables logging.
func New(logger *zap.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Extractor{
		logger:    logger,
		language:  DefaultLanguage,
		namespace: tiaxml.DefaultNamespace,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StructuresFor returns the structures visited for a data block, in visiting order.
func StructuresFor(dbName string) []string {
	if strings.EqualFold(dbName, GlobalDBName) {
		return []string{StructAlmLong, StructAlmShort, StructSign}
	}
	return []string{StructAlm, StructSign}
}

// BaseSubGroupID returns the key offset of a structure: 5000 for signals, 0 otherwise.
func BaseSubGroupID(structure string) int {
	if strings.EqualFold(structure, StructSign) {
		return signSubGroupID
	}
	return 0
}

// AdjustedBaseKey returns the base key used for a structure. Short alarms of
// the global block are keyed one block above the long ones.
func AdjustedBaseKey(structure string, baseKey int) int {
	if strings.EqualFold(structure, StructAlmShort) {
		return baseKey + 1
	}
	return baseKey
}

// CustomKey computes the identifier of the slot visited at position globalNumber.
func CustomKey(adjustedBaseKey, baseSubGroupID, globalNumber int) int {
	return adjustedBaseKey*keyMultiplier + baseSubGroupID + globalNumber
}

// ExtractFile loads the document at path and extracts it.
func (e *Extractor) ExtractFile(path, dbName string, baseKey int) (*Result, error) {
	doc, err := tiaxml.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	return e.ExtractDocument(doc, dbName, baseKey), nil
}

// ExtractDocument walks every relevant structure of doc. A document without a
// static section yields an empty result.
func (e *Extractor) ExtractDocument(doc *tiaxml.Document, dbName string, baseKey int) *Result {
	result := &Result{}

	ns := doc.NamespaceOr(e.namespace)
	e.logger.Debug("Using namespace", zap.String("db", dbName), zap.String("namespace", ns))

	static, ok := doc.StaticSection(ns)
	if !ok {
		e.logger.Warn("Static section not found", zap.String("db", dbName))
		return result
	}

	for _, structName := range StructuresFor(dbName) {
		result.Append(e.extractStructure(static, ns, dbName, structName, AdjustedBaseKey(structName, baseKey)))
	}

	e.logger.Info("Extracted comments",
		zap.String("db", dbName),
		zap.Int("records", len(result.Records)),
		zap.Int("findings", len(result.Findings)))
	return result
}

// slot identifies the structure a member is visited under.
type slot struct {
	db           string
	structure    string
	subGroup     string
	adjustedKey  int
	baseSubGroup int
}

func (e *Extractor) extractStructure(static *tiaxml.Element, ns, dbName, structName string, adjustedKey int) *Result {
	result := &Result{}

	var mainStruct *tiaxml.Element
	for _, m := range static.ChildrenNamed(ns, "Member") {
		if strings.EqualFold(m.Name(), structName) {
			mainStruct = m
			break
		}
	}
	if mainStruct == nil {
		e.logger.Warn("Structure not found", zap.String("db", dbName), zap.String("structure", structName))
		return result
	}

	e.logger.Debug("Processing structure", zap.String("db", dbName), zap.String("structure", structName))

	globalNumber := 0
	for _, subGroup := range mainStruct.Path(ns, "Sections", "Section", "Member") {
		s := slot{
			db:           dbName,
			structure:    structName,
			subGroup:     subGroup.Name(),
			adjustedKey:  adjustedKey,
			baseSubGroup: BaseSubGroupID(structName),
		}
		if s.subGroup == "" {
			e.logger.Warn("Skipping unnamed subgroup", zap.String("db", dbName), zap.String("structure", structName))
			continue
		}

		var sub *Result
		sub, globalNumber = e.extractSubGroup(subGroup, ns, s, globalNumber)
		result.Append(sub)
	}

	return result
}

// extractSubGroup visits the numbered members of one subgroup, starting the
// running counter at globalNumber, and returns the counter after the last member.
func (e *Extractor) extractSubGroup(subGroup *tiaxml.Element, ns string, s slot, globalNumber int) (*Result, int) {
	result := &Result{}

	for _, member := range subGroup.Path(ns, "Sections", "Section", "Member") {
		rawOrdinal := member.Name()
		number, err := strconv.Atoi(rawOrdinal)
		if err != nil || number < 0 {
			e.logger.Debug("Skipping non-numbered member",
				zap.String("db", s.db), zap.String("subgroup", s.subGroup), zap.String("member", rawOrdinal))
			continue
		}

		comment := e.commentText(member, ns)
		customKey := CustomKey(s.adjustedKey, s.baseSubGroup, globalNumber)

		result.Records = append(result.Records,
			model.NewCommentRecord(s.db, s.structure, s.subGroup, number, globalNumber, comment, customKey))
		if finding := Validate(comment, s.db, s.structure, s.subGroup, rawOrdinal); finding != nil {
			e.logger.Debug("Comment check failed",
				zap.String("element", ExpectedPrefix(s.db, s.structure, s.subGroup, rawOrdinal)),
				zap.String("mismatch", finding.Mismatch),
				zap.String("wrongPrefix", finding.WrongPrefix))
			result.Findings = append(result.Findings, finding)
		}

		e.logger.Debug("Slot",
			zap.String("structure", s.structure),
			zap.String("subgroup", s.subGroup),
			zap.Int("number", number),
			zap.Int("customKey", customKey))

		globalNumber++
	}

	return result, globalNumber
}

// commentText returns the trimmed comment in the extractor's language, or ""
// when the member carries none.
func (e *Extractor) commentText(member *tiaxml.Element, ns string) string {
	for _, text := range member.Path(ns, "Comment", "MultiLanguageText") {
		if lang, _ := text.Attr("Lang"); lang == e.language {
			return strings.TrimSpace(text.Text)
		}
	}
	return ""
}
