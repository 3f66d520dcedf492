package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
)

// newMockBrandRepository creates a GormBrandRepository with a mocked SQL connection
func newMockBrandRepository(t *testing.T) (*GormBrandRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormBrandRepository(gormDB), mock, mockDB
}

func TestGormBrandRepository_FindByID(t *testing.T) {
	t.Run("finds existing brand", func(t *testing.T) {
		repo, mock, mockDB := newMockBrandRepository(t)
		defer mockDB.Close()

		brandID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "aaia_brand_id", "logo_url", "active"}).
			AddRow(brandID, "HAWK PERFORMANCE", "BBTV", "", true)

		mock.ExpectQuery(`SELECT \* FROM "brands" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(brandID, 1).
			WillReturnRows(rows)

		brand, err := repo.FindByID(context.Background(), brandID)
		require.NoError(t, err)
		assert.Equal(t, brandID, brand.ID)
		assert.Equal(t, "HAWK PERFORMANCE", brand.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing brand", func(t *testing.T) {
		repo, mock, mockDB := newMockBrandRepository(t)
		defer mockDB.Close()

		brandID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "brands"`).
			WithArgs(brandID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

		brand, err := repo.FindByID(context.Background(), brandID)
		assert.Nil(t, brand)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormBrandRepository_FindByName(t *testing.T) {
	t.Run("finds brand by exact name", func(t *testing.T) {
		repo, mock, mockDB := newMockBrandRepository(t)
		defer mockDB.Close()

		brandID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "active"}).
			AddRow(brandID, "BILSTEIN", true)

		mock.ExpectQuery(`SELECT \* FROM "brands" WHERE name = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("BILSTEIN", 1).
			WillReturnRows(rows)

		brand, err := repo.FindByName(context.Background(), "BILSTEIN")
		require.NoError(t, err)
		assert.Equal(t, "BILSTEIN", brand.Name)
	})

	t.Run("returns ErrNotFound for unknown name", func(t *testing.T) {
		repo, mock, mockDB := newMockBrandRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "brands"`).
			WithArgs("NOBODY", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

		_, err := repo.FindByName(context.Background(), "NOBODY")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormBrandRepository_FindAllActive(t *testing.T) {
	t.Run("lists active brands ordered by name", func(t *testing.T) {
		repo, mock, mockDB := newMockBrandRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "name", "active"}).
			AddRow(uuid.New(), "BILSTEIN", true).
			AddRow(uuid.New(), "HAWK PERFORMANCE", true)

		mock.ExpectQuery(`SELECT \* FROM "brands" WHERE active = \$1 ORDER BY name ASC`).
			WithArgs(true).
			WillReturnRows(rows)

		brands, err := repo.FindAllActive(context.Background())
		require.NoError(t, err)
		require.Len(t, brands, 2)
		assert.Equal(t, "BILSTEIN", brands[0].Name)
	})
}
