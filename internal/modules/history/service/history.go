package service

import (
	"context"

	"signal_bot/internal/models"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Backend где физически лежит история.
type Backend interface {
	Name() string
	LoadIDs(ctx context.Context) ([]string, error)
	// Persist сохраняет добавленный id. all полный набор, для бэкендов, которые переписывают всё.
	Persist(ctx context.Context, added string, all []string) error
	Close() error
}

// History множество обработанных сигналов с записью в бэкенд на каждое изменение.
// Зовётся из одной горутины раннера, блокировок нет.
type History struct {
	backend Backend
	set     models.ProcessedSet
	log     *zap.Logger
}

func NewHistory(backend Backend, log *zap.Logger) *History {
	return &History{
		backend: backend,
		set:     models.NewProcessedSet(),
		log:     log.Named("history"),
	}
}

// Load поднимает множество из бэкенда. Нет истории => пустое множество.
func (h *History) Load(ctx context.Context) (models.ProcessedSet, error) {
	ids, err := h.backend.LoadIDs(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "load history from %s", h.backend.Name())
	}
	for _, id := range ids {
		h.set.Add(id)
	}
	h.log.Info("history loaded", zap.String("backend", h.backend.Name()), zap.Int("ids", len(h.set)))
	return h.set.Clone(), nil
}

// MarkProcessed добавляет id и синхронно сохраняет, возвращает размер множества.
// При ошибке записи id остаётся в памяти, в этом процессе сигнал повторно не пойдёт.
func (h *History) MarkProcessed(ctx context.Context, id string) (int, error) {
	if !h.set.Add(id) {
		return len(h.set), nil
	}
	if err := h.backend.Persist(ctx, id, h.set.IDs()); err != nil {
		return len(h.set), errors.Wrapf(err, "persist %s to %s", id, h.backend.Name())
	}
	return len(h.set), nil
}

func (h *History) Has(id string) bool { return h.set.Has(id) }

func (h *History) Len() int { return len(h.set) }

func (h *History) Close() error { return h.backend.Close() }
