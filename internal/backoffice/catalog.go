package backoffice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andymarkow/gamevault/internal/domain/catalog"
	"github.com/andymarkow/gamevault/internal/domain/users"
)

type GameParams struct {
	Name         string
	Slug         string
	Icon         string
	Description  string
	DisplayOrder int
	Active       bool
}

func (s *Service) ListGames(ctx context.Context, actor users.Principal) ([]*catalog.Game, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	list, err := s.store.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListGames: %w", err)
	}

	return list, nil
}

func (s *Service) CreateGame(ctx context.Context, actor users.Principal, p GameParams) (*catalog.Game, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	game, err := catalog.NewGame(p.Name, p.Slug, p.Icon, p.Description, p.DisplayOrder, p.Active)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if err := s.store.CreateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("store.CreateGame: %w", err)
	}

	s.log.Info("Game created", slog.Int64("game_id", game.ID), slog.String("slug", game.Slug))

	return game, nil
}

// UpdateGame edits a game category. The slug is rebuilt from p.Slug, or
// from the name when p.Slug is empty.
func (s *Service) UpdateGame(
	ctx context.Context, actor users.Principal, gameID int64, p GameParams,
) (*catalog.Game, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("store.GetGame: %w", err)
	}

	if err := game.Update(p.Name, p.Slug, p.Icon, p.Description, p.DisplayOrder, p.Active); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if err := s.store.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("store.UpdateGame: %w", err)
	}

	s.log.Info("Game updated", slog.Int64("game_id", game.ID), slog.String("slug", game.Slug))

	return game, nil
}

func (s *Service) ToggleGame(ctx context.Context, actor users.Principal, gameID int64) (*catalog.Game, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("store.GetGame: %w", err)
	}

	game.Toggle()

	if err := s.store.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("store.UpdateGame: %w", err)
	}

	return game, nil
}

// DeleteGame removes a game category that no store item refers to.
func (s *Service) DeleteGame(ctx context.Context, actor users.Principal, gameID int64) error {
	if err := authorize(actor); err != nil {
		return err
	}

	if _, err := s.store.GetGame(ctx, gameID); err != nil {
		return fmt.Errorf("store.GetGame: %w", err)
	}

	n, err := s.store.CountItems(ctx, gameID)
	if err != nil {
		return fmt.Errorf("store.CountItems: %w", err)
	}

	if n > 0 {
		return fmt.Errorf("game %d has %d items: %w", gameID, n, catalog.ErrGameHasItems)
	}

	if err := s.store.DeleteGame(ctx, gameID); err != nil {
		return fmt.Errorf("store.DeleteGame: %w", err)
	}

	s.log.Info("Game deleted", slog.Int64("game_id", gameID), slog.Int64("admin_id", actor.ID))

	return nil
}

// ListItems returns the items of one game, or of every game when gameID is 0.
func (s *Service) ListItems(ctx context.Context, actor users.Principal, gameID int64) ([]*catalog.Item, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	list, err := s.store.ListItems(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("store.ListItems: %w", err)
	}

	return list, nil
}

func (s *Service) CreateItem(
	ctx context.Context, actor users.Principal, gameID int64, name string, price int64,
) (*catalog.Item, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	item, err := catalog.NewItem(gameID, name, price)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err := s.store.GetGame(ctx, gameID); err != nil {
		return nil, fmt.Errorf("store.GetGame: %w", err)
	}

	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("store.CreateItem: %w", err)
	}

	s.log.Info("Store item created", slog.Int64("item_id", item.ID), slog.Int64("game_id", gameID))

	return item, nil
}

func (s *Service) UpdateItem(
	ctx context.Context, actor users.Principal, itemID, gameID int64, name string, price int64,
) (*catalog.Item, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("store.GetItem: %w", err)
	}

	if err := item.Update(gameID, name, price); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err := s.store.GetGame(ctx, gameID); err != nil {
		return nil, fmt.Errorf("store.GetGame: %w", err)
	}

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("store.UpdateItem: %w", err)
	}

	return item, nil
}

func (s *Service) ToggleItem(ctx context.Context, actor users.Principal, itemID int64) (*catalog.Item, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	return s.changeItem(ctx, itemID, func(i *catalog.Item) {
		i.Toggle()
	})
}

// SetItemsFeatured flags or unflags every listed item.
func (s *Service) SetItemsFeatured(
	ctx context.Context, actor users.Principal, ids []int64, featured bool,
) (BulkResult, error) {
	if err := authorize(actor); err != nil {
		return BulkResult{}, err
	}

	return s.bulk("feature item", ids, func(id int64) error {
		_, err := s.changeItem(ctx, id, func(i *catalog.Item) {
			i.Featured = featured
		})

		return err
	})
}

func (s *Service) SetItemsActive(
	ctx context.Context, actor users.Principal, ids []int64, active bool,
) (BulkResult, error) {
	if err := authorize(actor); err != nil {
		return BulkResult{}, err
	}

	return s.bulk("activate item", ids, func(id int64) error {
		_, err := s.changeItem(ctx, id, func(i *catalog.Item) {
			i.IsActive = active
		})

		return err
	})
}

func (s *Service) changeItem(ctx context.Context, itemID int64, change func(i *catalog.Item)) (*catalog.Item, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("store.GetItem: %w", err)
	}

	change(item)

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("store.UpdateItem: %w", err)
	}

	return item, nil
}
