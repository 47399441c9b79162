package models

import "sort"

// ProcessedSet id сигналов, которые уже прошли через бота. Только растёт.
type ProcessedSet map[string]struct{}

func NewProcessedSet(ids ...string) ProcessedSet {
	s := make(ProcessedSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s ProcessedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add true, если id новый.
func (s ProcessedSet) Add(id string) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// IDs отсортированный список, чтобы файл истории был стабильным.
func (s ProcessedSet) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone копия для отдачи наружу.
func (s ProcessedSet) Clone() ProcessedSet {
	out := make(ProcessedSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}
