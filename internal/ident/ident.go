package ident

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Generator hands out ids for pages, contents, choices and answer slots.
type Generator interface {
	NewID() string
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() string {
	return uuid.New().String()
}

// UUID is the generator used outside of tests.
var UUID Generator = uuidGenerator{}

// Sequence produces prefix-1, prefix-2, ... and is deterministic across runs.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.prefix + "-" + strconv.Itoa(s.n)
}
