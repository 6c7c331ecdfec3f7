// Package engine runs the per-candidate validation pipeline: synchronous
// rule checks, then the asynchronous similarity search, merged into a single
// validity result. Sessions add per-slot debounce and cancellation on top.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"street-name-validation/internal/corpus"
	"street-name-validation/internal/models"
	"street-name-validation/pkg/config"
	"street-name-validation/pkg/logging"
	"street-name-validation/pkg/utils"
)

// Fixed applicant-facing messages. Downstream UI matches on these strings;
// change them in lockstep with the frontend.
const (
	MsgRequired      = "required"
	MsgLettersOnly   = "Street name must only contain letters"
	MsgDirection     = "Street name cannot contain a direction"
	MsgStreetType    = "Street name cannot contain a street type"
	MsgWordTooShort  = "Each word in the street name must be at least three characters"
	MsgTooManyWords  = "Street name must be two words or less"
	MsgTypeRequired  = "Street type is required"
	msgExistsSuffix  = "already exists"
	msgSoundsLikeFmt = "May sound like %s"
)

var lettersAndSpaces = regexp.MustCompile(`^[a-zA-Z\s]+$`)

// Lookup is the point query for an existing street's attribute fields, used
// to build the "already exists" message.
type Lookup interface {
	LookupExact(ctx context.Context, name string) (*models.StreetRecord, error)
}

// SimilarityChecker answers whether a candidate sounds like any corpus entry.
type SimilarityChecker interface {
	Check(ctx context.Context, candidateName string) (*models.SimilarStreet, error)
}

// Validator applies the naming-convention pipeline to one candidate at a
// time. It is stateless and safe for concurrent use.
type Validator struct {
	corpus  *corpus.Service
	lookup  Lookup
	checker SimilarityChecker
	rules   config.Rules
	log     *logging.ComponentLogger
}

func NewValidator(c *corpus.Service, lookup Lookup, checker SimilarityChecker, rules config.Rules, log *logging.Logger) *Validator {
	return &Validator{
		corpus:  c,
		lookup:  lookup,
		checker: checker,
		rules:   rules,
		log:     log.WithComponent("engine"),
	}
}

// Validate runs the full pipeline for one candidate name + type. The only
// error it returns is ctx cancellation; upstream failures degrade to the
// cached data and never surface to the applicant.
func (v *Validator) Validate(ctx context.Context, name, streetType string) (models.Validity, error) {
	if err := ctx.Err(); err != nil {
		return models.Validity{}, err
	}
	typeSelected := streetType != ""

	if strings.TrimSpace(name) == "" {
		return invalid(MsgRequired, typeSelected), nil
	}

	// Exact duplicates short-circuit before any phonetics.
	if entry, ok := v.corpus.FindExact(name); ok {
		msg, err := v.existsMessage(ctx, entry)
		if err != nil {
			return models.Validity{}, err
		}
		return invalid(msg, typeSelected), nil
	}

	if !lettersAndSpaces.MatchString(name) {
		return invalid(MsgLettersOnly, typeSelected), nil
	}

	upper := strings.ToUpper(name)
	for _, d := range v.rules.Directions {
		if strings.HasPrefix(upper, d) {
			return invalid(MsgDirection, typeSelected), nil
		}
	}

	for _, t := range v.rules.DisallowedTypes {
		if strings.HasPrefix(upper, t+" ") || strings.HasSuffix(upper, " "+t) {
			return invalid(MsgStreetType, typeSelected), nil
		}
	}

	words := strings.Fields(name)
	for _, w := range words {
		if len([]rune(w)) < v.rules.MinWordLength {
			return invalid(MsgWordTooShort, typeSelected), nil
		}
	}
	if len(words) > v.rules.MaxWordCount {
		return invalid(MsgTooManyWords, typeSelected), nil
	}

	// Similarity is advisory: a match stays Valid but carries a warning.
	verdict, err := v.checker.Check(ctx, strings.TrimSpace(name))
	if err != nil {
		if ctx.Err() != nil {
			return models.Validity{}, ctx.Err()
		}
		v.log.Warn("similarity check unavailable, proceeding without it", logging.Any("error", err.Error()))
		verdict = nil
	}
	// Status is Valid iff both name and type are valid; a missing type
	// dominates even when a similarity advisory was found.
	if !typeSelected {
		return models.Validity{Status: models.StatusInvalid, Message: MsgTypeRequired, NameValid: true, TypeValid: false}, nil
	}
	if verdict != nil && verdict.Similar {
		return models.Validity{
			Status:    models.StatusValid,
			Message:   fmt.Sprintf(msgSoundsLikeFmt, verdict.StreetName),
			NameValid: true,
			TypeValid: true,
		}, nil
	}
	return models.Validity{Status: models.StatusValid, Message: "", NameValid: true, TypeValid: true}, nil
}

// existsMessage builds the duplicate message from the upstream record's
// direction/name/type fields, title-cased, appending the owning jurisdiction
// when the lookup returns one. A failed lookup degrades to the corpus entry.
func (v *Validator) existsMessage(ctx context.Context, entry string) (string, error) {
	var rec *models.StreetRecord
	if v.lookup != nil {
		var err error
		rec, err = v.lookup.LookupExact(ctx, entry)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			v.log.Warn("exact-match lookup failed, using cached entry", logging.Any("error", err.Error()))
		}
	}
	if rec == nil {
		return fmt.Sprintf("%s %s", utils.TitleCase(strings.TrimSpace(entry)), msgExistsSuffix), nil
	}

	parts := make([]string, 0, 3)
	for _, p := range []string{rec.DirPrefix, rec.Name, rec.Type} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, utils.TitleCase(strings.TrimSpace(p)))
		}
	}
	msg := fmt.Sprintf("%s %s", strings.Join(parts, " "), msgExistsSuffix)
	if strings.TrimSpace(rec.Jurisdiction) != "" {
		msg += " in " + utils.TitleCase(strings.TrimSpace(rec.Jurisdiction))
	}
	return msg, nil
}

func invalid(msg string, typeSelected bool) models.Validity {
	return models.Validity{Status: models.StatusInvalid, Message: msg, NameValid: false, TypeValid: typeSelected}
}
