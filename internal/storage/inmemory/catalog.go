package inmemory

import (
	"context"
	"slices"
	"strings"

	"github.com/andymarkow/gamevault/internal/domain/catalog"
	"github.com/andymarkow/gamevault/internal/storage"
)

func (r *repo) CreateGame(_ context.Context, game *catalog.Game) error {
	defer r.lock()()

	for _, g := range r.st.games {
		if g.Slug == game.Slug {
			return storage.ErrGameAlreadyExists
		}
	}

	game.ID = r.st.nextID()
	r.st.games[game.ID] = *game

	return nil
}

func (r *repo) GetGame(_ context.Context, id int64) (*catalog.Game, error) {
	defer r.lock()()

	g, ok := r.st.games[id]
	if !ok {
		return nil, storage.ErrGameNotFound
	}

	return &g, nil
}

func (r *repo) UpdateGame(_ context.Context, game *catalog.Game) error {
	defer r.lock()()

	if _, ok := r.st.games[game.ID]; !ok {
		return storage.ErrGameNotFound
	}

	for _, g := range r.st.games {
		if g.ID != game.ID && g.Slug == game.Slug {
			return storage.ErrGameAlreadyExists
		}
	}

	r.st.games[game.ID] = *game

	return nil
}

func (r *repo) DeleteGame(_ context.Context, id int64) error {
	defer r.lock()()

	if _, ok := r.st.games[id]; !ok {
		return storage.ErrGameNotFound
	}

	delete(r.st.games, id)

	return nil
}

// ListGames orders games by display order, then name.
func (r *repo) ListGames(_ context.Context) ([]*catalog.Game, error) {
	defer r.lock()()

	list := make([]*catalog.Game, 0, len(r.st.games))

	for _, g := range r.st.games {
		list = append(list, &g)
	}

	slices.SortFunc(list, func(a, b *catalog.Game) int {
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder - b.DisplayOrder
		}

		return strings.Compare(a.Name, b.Name)
	})

	return list, nil
}

func (r *repo) CreateItem(_ context.Context, item *catalog.Item) error {
	defer r.lock()()

	if _, ok := r.st.games[item.GameID]; !ok {
		return storage.ErrGameNotFound
	}

	item.ID = r.st.nextID()
	r.st.items[item.ID] = *item

	return nil
}

func (r *repo) GetItem(_ context.Context, id int64) (*catalog.Item, error) {
	defer r.lock()()

	i, ok := r.st.items[id]
	if !ok {
		return nil, storage.ErrItemNotFound
	}

	return &i, nil
}

func (r *repo) UpdateItem(_ context.Context, item *catalog.Item) error {
	defer r.lock()()

	if _, ok := r.st.items[item.ID]; !ok {
		return storage.ErrItemNotFound
	}

	if _, ok := r.st.games[item.GameID]; !ok {
		return storage.ErrGameNotFound
	}

	r.st.items[item.ID] = *item

	return nil
}

// ListItems returns the items of a game, or of every game when gameID is zero.
// Featured items come first.
func (r *repo) ListItems(_ context.Context, gameID int64) ([]*catalog.Item, error) {
	defer r.lock()()

	list := make([]*catalog.Item, 0)

	for _, i := range r.st.items {
		if gameID == 0 || i.GameID == gameID {
			list = append(list, &i)
		}
	}

	slices.SortFunc(list, func(a, b *catalog.Item) int {
		if a.Featured != b.Featured {
			if a.Featured {
				return -1
			}

			return 1
		}

		return int(a.ID - b.ID)
	})

	return list, nil
}

func (r *repo) CountItems(_ context.Context, gameID int64) (int, error) {
	defer r.lock()()

	var count int

	for _, i := range r.st.items {
		if i.GameID == gameID {
			count++
		}
	}

	return count, nil
}

func (r *repo) CreatePaymentMethod(_ context.Context, m *catalog.PaymentMethod) error {
	defer r.lock()()

	m.ID = r.st.nextID()
	r.st.methods[m.ID] = *m

	return nil
}

func (r *repo) GetPaymentMethod(_ context.Context, id int64) (*catalog.PaymentMethod, error) {
	defer r.lock()()

	m, ok := r.st.methods[id]
	if !ok {
		return nil, storage.ErrPaymentMethodNotFound
	}

	return &m, nil
}

func (r *repo) UpdatePaymentMethod(_ context.Context, m *catalog.PaymentMethod) error {
	defer r.lock()()

	if _, ok := r.st.methods[m.ID]; !ok {
		return storage.ErrPaymentMethodNotFound
	}

	r.st.methods[m.ID] = *m

	return nil
}

func (r *repo) DeletePaymentMethod(_ context.Context, id int64) error {
	defer r.lock()()

	if _, ok := r.st.methods[id]; !ok {
		return storage.ErrPaymentMethodNotFound
	}

	delete(r.st.methods, id)

	return nil
}

func (r *repo) ListPaymentMethods(_ context.Context, activeOnly bool) ([]*catalog.PaymentMethod, error) {
	defer r.lock()()

	list := make([]*catalog.PaymentMethod, 0, len(r.st.methods))

	for _, m := range r.st.methods {
		if activeOnly && !m.IsActive {
			continue
		}

		list = append(list, &m)
	}

	slices.SortFunc(list, func(a, b *catalog.PaymentMethod) int {
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder - b.DisplayOrder
		}

		return strings.Compare(a.Name, b.Name)
	})

	return list, nil
}
