package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/essencia/backend/internal/domain/intake"
	"github.com/essencia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDocumentRepository(t *testing.T) (*GormReceptionDocumentRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormReceptionDocumentRepository(db), mock, mockDB
}

func documentRows(ids ...uuid.UUID) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "version",
		"document_number", "supplier_id", "supplier_name", "material",
		"gross_weight", "packaging_weight", "unit_price", "amount_paid_directly",
		"net_weight", "total_price", "final_debt", "status",
	})
	for i, id := range ids {
		rows.AddRow(
			id, time.Now().Add(time.Duration(i)*time.Minute), time.Now(), 1,
			fmt.Sprintf("BR-2025-%03d", i+1), uuid.New(), "Vanille SARL", "vanille verte",
			"120.5", "5.5", "150000", "0",
			"110.4", "16560000", "0", "RECORDED",
		)
	}
	return rows
}

func TestGormReceptionDocumentRepository_FindByID(t *testing.T) {
	t.Run("returns document when found", func(t *testing.T) {
		repo, mock, mockDB := newMockDocumentRepository(t)
		defer mockDB.Close()

		docID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "reception_documents" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(docID, 1).
			WillReturnRows(documentRows(docID))

		doc, err := repo.FindByID(context.Background(), docID)

		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, docID, doc.ID)
		assert.Equal(t, intake.DocumentStatusRecorded, doc.Status)
		assert.Equal(t, "110.4", doc.NetWeight.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil without error when not found", func(t *testing.T) {
		repo, mock, mockDB := newMockDocumentRepository(t)
		defer mockDB.Close()

		docID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "reception_documents" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(docID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		doc, err := repo.FindByID(context.Background(), docID)

		require.NoError(t, err)
		assert.Nil(t, doc)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormReceptionDocumentRepository_FindByDocumentNumber(t *testing.T) {
	repo, mock, mockDB := newMockDocumentRepository(t)
	defer mockDB.Close()

	docID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "reception_documents" WHERE document_number = \$1 ORDER BY .* LIMIT .*`).
		WithArgs("BR-2025-001", 1).
		WillReturnRows(documentRows(docID))

	doc, err := repo.FindByDocumentNumber(context.Background(), "BR-2025-001")

	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, docID, doc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReceptionDocumentRepository_FindAll(t *testing.T) {
	repo, mock, mockDB := newMockDocumentRepository(t)
	defer mockDB.Close()

	supplierID := uuid.New()
	status := intake.DocumentStatusRecorded
	first := uuid.New()
	second := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "reception_documents" WHERE supplier_id = \$1 AND status = \$2 ORDER BY created_at DESC LIMIT .*`).
		WithArgs(supplierID, status, 20).
		WillReturnRows(documentRows(first, second))

	docs, err := repo.FindAll(context.Background(), intake.ReceptionDocumentFilter{
		SupplierID: &supplierID,
		Status:     &status,
		Filter: shared.Filter{
			Page:     1,
			PageSize: 20,
		},
	})

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, first, docs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReceptionDocumentRepository_SaveWithLock(t *testing.T) {
	newVersionedDocument := func(t *testing.T) *intake.ReceptionDocument {
		t.Helper()
		doc := &intake.ReceptionDocument{
			BaseAggregateRoot: shared.NewBaseAggregateRoot(),
			DocumentNumber:    "BR-2025-001",
			SupplierID:        uuid.New(),
			SupplierName:      "Vanille SARL",
			Material:          "vanille verte",
			Status:            intake.DocumentStatusSettled,
		}
		doc.Version = 2
		return doc
	}

	t.Run("updates row guarded by previous version", func(t *testing.T) {
		repo, mock, mockDB := newMockDocumentRepository(t)
		defer mockDB.Close()

		doc := newVersionedDocument(t)

		mock.ExpectExec(`UPDATE "reception_documents" SET .+ WHERE id = .+ AND version = .+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), doc)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns conflict when no row matches the version", func(t *testing.T) {
		repo, mock, mockDB := newMockDocumentRepository(t)
		defer mockDB.Close()

		doc := newVersionedDocument(t)

		mock.ExpectExec(`UPDATE "reception_documents" SET .+ WHERE id = .+ AND version = .+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), doc)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormReceptionDocumentRepository_SumOutstandingDebt(t *testing.T) {
	repo, mock, mockDB := newMockDocumentRepository(t)
	defer mockDB.Close()

	supplierID := uuid.New()
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(final_debt\), 0\) FROM "reception_documents" WHERE supplier_id = \$1 AND status = \$2 AND payment_status <> \$3`).
		WithArgs(supplierID, intake.DocumentStatusSettled, "PAID").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("700000"))

	sum, err := repo.SumOutstandingDebt(context.Background(), supplierID)

	require.NoError(t, err)
	assert.Equal(t, "700000", sum.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
