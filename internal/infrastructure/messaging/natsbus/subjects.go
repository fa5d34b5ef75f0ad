package natsbus

import (
	"fmt"
	"strings"

	"github.com/rezkam/newsdesk/internal/domain"
)

// SubjectRoot prefixes every content subject.
const SubjectRoot = "content"

// Subject returns the subject an event of kind and mutation is published on.
func Subject(kind domain.Kind, mutation domain.MutationKind) string {
	return SubjectRoot + "." + string(kind) + "." + string(mutation)
}

// KindSubject matches every mutation of kind.
func KindSubject(kind domain.Kind) string {
	return SubjectRoot + "." + string(kind) + ".*"
}

// ParseSubject splits a content subject back into kind and mutation.
func ParseSubject(subject string) (domain.Kind, domain.MutationKind, error) {
	parts := strings.Split(subject, ".")
	if len(parts) != 3 || parts[0] != SubjectRoot {
		return "", "", fmt.Errorf("not a content subject: %q", subject)
	}
	kind, err := domain.NewKind(parts[1])
	if err != nil {
		return "", "", err
	}
	switch m := domain.MutationKind(parts[2]); m {
	case domain.MutationCreate, domain.MutationUpdate, domain.MutationDelete:
		return kind, m, nil
	default:
		return "", "", fmt.Errorf("unknown mutation in subject %q", subject)
	}
}
