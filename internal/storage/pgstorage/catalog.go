package pgstorage

import (
	"context"

	"github.com/andymarkow/gamevault/internal/domain/catalog"
	"github.com/andymarkow/gamevault/internal/storage"
)

const gameColumns = `id, name, slug, icon, description, display_order, is_active, created_at`

func scanGame(row scanner) (*catalog.Game, error) {
	var g catalog.Game

	if err := row.Scan(&g.ID, &g.Name, &g.Slug, &g.Icon, &g.Description, &g.DisplayOrder,
		&g.IsActive, &g.CreatedAt); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &g, nil
}

func (q *queries) CreateGame(ctx context.Context, game *catalog.Game) error {
	id, err := q.insert(ctx, storage.ErrGameAlreadyExists,
		`INSERT INTO games (name, slug, icon, description, display_order, is_active, created_at)`+
			` VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		game.Name, game.Slug, game.Icon, game.Description, game.DisplayOrder, game.IsActive, game.CreatedAt,
	)
	if err != nil {
		return err
	}

	game.ID = id

	return nil
}

func (q *queries) GetGame(ctx context.Context, id int64) (*catalog.Game, error) {
	var g *catalog.Game

	err := q.getOne(ctx, storage.ErrGameNotFound, func(row scanner) error {
		var err error
		g, err = scanGame(row)

		return err
	}, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}

	return g, nil
}

func (q *queries) UpdateGame(ctx context.Context, game *catalog.Game) error {
	err := q.update(ctx, storage.ErrGameNotFound,
		`UPDATE games SET name = $1, slug = $2, icon = $3, description = $4, display_order = $5,`+
			` is_active = $6 WHERE id = $7`,
		game.Name, game.Slug, game.Icon, game.Description, game.DisplayOrder, game.IsActive, game.ID,
	)
	if err != nil && isUniqueViolation(err) {
		return storage.ErrGameAlreadyExists
	}

	return err
}

func (q *queries) DeleteGame(ctx context.Context, id int64) error {
	return q.update(ctx, storage.ErrGameNotFound, `DELETE FROM games WHERE id = $1`, id)
}

func (q *queries) ListGames(ctx context.Context) ([]*catalog.Game, error) {
	var list []*catalog.Game

	err := q.getMany(ctx,
		func() { list = make([]*catalog.Game, 0) },
		func(row scanner) error {
			g, err := scanGame(row)
			if err != nil {
				return err
			}

			list = append(list, g)

			return nil
		},
		`SELECT `+gameColumns+` FROM games ORDER BY display_order, name`,
	)
	if err != nil {
		return nil, err
	}

	return list, nil
}

const itemColumns = `id, game_id, name, description, price, quantity, featured, is_active, created_at, updated_at`

func scanItem(row scanner) (*catalog.Item, error) {
	var i catalog.Item

	if err := row.Scan(&i.ID, &i.GameID, &i.Name, &i.Description, &i.Price, &i.Quantity,
		&i.Featured, &i.IsActive, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &i, nil
}

func (q *queries) CreateItem(ctx context.Context, item *catalog.Item) error {
	id, err := q.insert(ctx, nil,
		`INSERT INTO store_items (game_id, name, description, price, quantity, featured, is_active,`+
			` created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		item.GameID, item.Name, item.Description, item.Price, item.Quantity, item.Featured,
		item.IsActive, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrGameNotFound
		}

		return err
	}

	item.ID = id

	return nil
}

func (q *queries) GetItem(ctx context.Context, id int64) (*catalog.Item, error) {
	var i *catalog.Item

	err := q.getOne(ctx, storage.ErrItemNotFound, func(row scanner) error {
		var err error
		i, err = scanItem(row)

		return err
	}, `SELECT `+itemColumns+` FROM store_items WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}

	return i, nil
}

func (q *queries) UpdateItem(ctx context.Context, item *catalog.Item) error {
	err := q.update(ctx, storage.ErrItemNotFound,
		`UPDATE store_items SET game_id = $1, name = $2, description = $3, price = $4, quantity = $5,`+
			` featured = $6, is_active = $7, updated_at = $8 WHERE id = $9`,
		item.GameID, item.Name, item.Description, item.Price, item.Quantity, item.Featured,
		item.IsActive, item.UpdatedAt, item.ID,
	)
	if err != nil && isForeignKeyViolation(err) {
		return storage.ErrGameNotFound
	}

	return err
}

func (q *queries) ListItems(ctx context.Context, gameID int64) ([]*catalog.Item, error) {
	var list []*catalog.Item

	err := q.getMany(ctx,
		func() { list = make([]*catalog.Item, 0) },
		func(row scanner) error {
			i, err := scanItem(row)
			if err != nil {
				return err
			}

			list = append(list, i)

			return nil
		},
		`SELECT `+itemColumns+` FROM store_items WHERE $1 = 0 OR game_id = $1 ORDER BY featured DESC, id`,
		gameID,
	)
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (q *queries) CountItems(ctx context.Context, gameID int64) (int, error) {
	return q.count(ctx, `SELECT count(*) FROM store_items WHERE game_id = $1`, gameID)
}

const methodColumns = `id, name, method_type, account_number, account_name, instructions, qr_code_url,` +
	` display_order, is_active, created_at`

func scanPaymentMethod(row scanner) (*catalog.PaymentMethod, error) {
	var m catalog.PaymentMethod

	if err := row.Scan(&m.ID, &m.Name, &m.Type, &m.AccountNumber, &m.AccountName, &m.Instructions,
		&m.QRCodeURL, &m.DisplayOrder, &m.IsActive, &m.CreatedAt); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &m, nil
}

func (q *queries) CreatePaymentMethod(ctx context.Context, m *catalog.PaymentMethod) error {
	id, err := q.insert(ctx, nil,
		`INSERT INTO payment_methods (name, method_type, account_number, account_name, instructions,`+
			` qr_code_url, display_order, is_active, created_at)`+
			` VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		m.Name, string(m.Type), m.AccountNumber, m.AccountName, m.Instructions,
		m.QRCodeURL, m.DisplayOrder, m.IsActive, m.CreatedAt,
	)
	if err != nil {
		return err
	}

	m.ID = id

	return nil
}

func (q *queries) GetPaymentMethod(ctx context.Context, id int64) (*catalog.PaymentMethod, error) {
	var m *catalog.PaymentMethod

	err := q.getOne(ctx, storage.ErrPaymentMethodNotFound, func(row scanner) error {
		var err error
		m, err = scanPaymentMethod(row)

		return err
	}, `SELECT `+methodColumns+` FROM payment_methods WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (q *queries) UpdatePaymentMethod(ctx context.Context, m *catalog.PaymentMethod) error {
	return q.update(ctx, storage.ErrPaymentMethodNotFound,
		`UPDATE payment_methods SET name = $1, method_type = $2, account_number = $3, account_name = $4,`+
			` instructions = $5, qr_code_url = $6, display_order = $7, is_active = $8 WHERE id = $9`,
		m.Name, string(m.Type), m.AccountNumber, m.AccountName, m.Instructions,
		m.QRCodeURL, m.DisplayOrder, m.IsActive, m.ID,
	)
}

func (q *queries) DeletePaymentMethod(ctx context.Context, id int64) error {
	return q.update(ctx, storage.ErrPaymentMethodNotFound, `DELETE FROM payment_methods WHERE id = $1`, id)
}

func (q *queries) ListPaymentMethods(ctx context.Context, activeOnly bool) ([]*catalog.PaymentMethod, error) {
	var list []*catalog.PaymentMethod

	err := q.getMany(ctx,
		func() { list = make([]*catalog.PaymentMethod, 0) },
		func(row scanner) error {
			m, err := scanPaymentMethod(row)
			if err != nil {
				return err
			}

			list = append(list, m)

			return nil
		},
		`SELECT `+methodColumns+` FROM payment_methods WHERE NOT $1 OR is_active ORDER BY display_order, name`,
		activeOnly,
	)
	if err != nil {
		return nil, err
	}

	return list, nil
}
