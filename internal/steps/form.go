// Package steps implements the typed onboarding step forms.
//
// A form is decoded from the submitted JSON body, validated as a whole, and
// turned into the payload merged into the accumulated onboarding data. Forms
// never call each other; anything they need from earlier steps arrives through
// the accumulated data handed to Commit.
package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/kapu/collabhub-go/internal/domain"
	"github.com/kapu/collabhub-go/internal/store"
	"github.com/kapu/collabhub-go/internal/validation"
)

// Form is the draft state of one step.
type Form interface {
	Kind() domain.StepKind
	// Validate evaluates every rule and returns all failures.
	Validate() validation.Errors
	// Payload is the data merged into the onboarding state once the step is accepted.
	Payload() (domain.Data, error)
}

// CommitEnv is what a committing form may read and write.
type CommitEnv struct {
	Store    store.Store
	UserType domain.UserType
	// Data is the accumulated onboarding data before this step's payload is merged.
	Data    domain.Data
	Now     time.Time
	FileURL func(domain.FileRef) string
}

// Committer is implemented by forms that write a profile into the store when accepted.
type Committer interface {
	Commit(ctx context.Context, env CommitEnv) error
}

type normalizer interface {
	normalize()
}

// FileLookup returns the upload a session holds under id.
type FileLookup func(id string) (domain.FileRef, bool)

type fileResolver interface {
	resolveFiles(files FileLookup)
}

// ResolveFiles replaces every file reference in f with the upload it names.
// References to files the session does not hold are cleared, so the form's
// required-file rules report them. A nil lookup leaves f unchanged.
func ResolveFiles(f Form, files FileLookup) {
	if files == nil {
		return
	}
	if r, ok := f.(fileResolver); ok {
		r.resolveFiles(files)
	}
}

// Decode fills f from r, rejecting unknown fields, then normalises the input
// the way the forms expect it (upper-case identifiers, trimmed tags).
func Decode(r io.Reader, f Form) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(f); err != nil {
		return fmt.Errorf("decode %s form: %w", f.Kind(), err)
	}
	if n, ok := f.(normalizer); ok {
		n.normalize()
	}
	return nil
}

func hasFile(ref *domain.FileRef) bool {
	return ref != nil && ref.ID != ""
}

func resolveRef(ref *domain.FileRef, files FileLookup) *domain.FileRef {
	if !hasFile(ref) {
		return nil
	}
	up, ok := files(ref.ID)
	if !ok {
		return nil
	}
	return &up
}

func fileURL(env CommitEnv, ref *domain.FileRef) string {
	if !hasFile(ref) {
		return ""
	}
	if env.FileURL == nil {
		return ref.ID
	}
	return env.FileURL(*ref)
}

func fileValue(ref *domain.FileRef) any {
	if !hasFile(ref) {
		return nil
	}
	return *ref
}
