package migrate

import (
	"context"

	"fashun-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto, uuid-ossp
	CreateChecks           bool // CHECK-constraint'ы
	CreateIndexes          bool // индексы и UNIQUE
	CreateFKsViaSQL        bool // FK через Exec после AutoMigrate
	CreateUpdatedAtTrigger bool // триггеры updated_at
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateFKsViaSQL:        true,
		CreateUpdatedAtTrigger: true,
	}
}

func MigrateCommerceDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("Начало миграции базы каталога/корзин")

	// Расширения
	if opt.CreateExtensions {
		log.Info("Создание расширений PostgreSQL")
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("pgcrypto error", zap.Error(err))
			return err
		}
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
			log.Error("uuid-ossp error", zap.Error(err))
			return err
		}
		log.Info("Расширения созданы")
	}

	// Таблицы
	log.Info("Создание таблиц: products, product_variants, inventories, abandoned_carts")
	if err := db.AutoMigrate(&models.Product{}, &models.ProductVariant{}, &models.Inventory{}, &models.AbandonedCart{}); err != nil {
		log.Error("AutoMigrate error", zap.Error(err))
		return err
	}
	log.Info("Таблицы созданы")

	// Триггеры updated_at
	if opt.CreateUpdatedAtTrigger {
		log.Info("Создание триггеров updated_at")
		if err := db.Exec(`
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_products_updated ON products;
CREATE TRIGGER trg_products_updated BEFORE UPDATE ON products
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_variants_updated ON product_variants;
CREATE TRIGGER trg_variants_updated BEFORE UPDATE ON product_variants
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_inventories_updated ON inventories;
CREATE TRIGGER trg_inventories_updated BEFORE UPDATE ON inventories
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_abandoned_carts_updated ON abandoned_carts;
CREATE TRIGGER trg_abandoned_carts_updated BEFORE UPDATE ON abandoned_carts
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`).Error; err != nil {
			log.Error("triggers error", zap.Error(err))
			return err
		}
		log.Info("Триггеры созданы")
	}

	// CHECK-и
	if opt.CreateChecks {
		log.Info("Создание CHECK-ограничений")

		// Валюта — строго 'INR'
		if err := db.Exec(`
ALTER TABLE products
	DROP CONSTRAINT IF EXISTS chk_products_currency_code_inr,
	ADD CONSTRAINT chk_products_currency_code_inr
	CHECK (currency_code = 'INR' AND char_length(currency_code) = 3);
`).Error; err != nil {
			log.Error("chk currency_code", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE products
	DROP CONSTRAINT IF EXISTS chk_products_price_non_negative,
	ADD CONSTRAINT chk_products_price_non_negative
	CHECK (price_cents >= 0);
`).Error; err != nil {
			log.Error("chk price", zap.Error(err))
			return err
		}

		// Остатки вариантов не уходят в минус — клампим в сервисе, страхуем в БД
		if err := db.Exec(`
ALTER TABLE product_variants
	DROP CONSTRAINT IF EXISTS chk_variants_stock_non_negative,
	ADD CONSTRAINT chk_variants_stock_non_negative
	CHECK (stock >= 0);
`).Error; err != nil {
			log.Error("chk variants.stock", zap.Error(err))
			return err
		}

		// reserved не превышает total (инвариант availableStock >= 0)
		if err := db.Exec(`
ALTER TABLE inventories
	DROP CONSTRAINT IF EXISTS chk_inventories_non_negative,
	ADD CONSTRAINT chk_inventories_non_negative
	CHECK (total_stock >= 0 AND reserved_stock >= 0 AND reserved_stock <= total_stock);
`).Error; err != nil {
			log.Error("chk inventories", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE inventories
	DROP CONSTRAINT IF EXISTS chk_inventories_status_allowed,
	ADD CONSTRAINT chk_inventories_status_allowed
	CHECK (stock_status IN ('out_of_stock','low_stock','in_stock'));
`).Error; err != nil {
			log.Error("chk inventories.status", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE abandoned_carts
	DROP CONSTRAINT IF EXISTS chk_abandoned_carts_status_allowed,
	ADD CONSTRAINT chk_abandoned_carts_status_allowed
	CHECK (status IN ('abandoned','recovered'));
`).Error; err != nil {
			log.Error("chk abandoned_carts.status", zap.Error(err))
			return err
		}

		// Последовательность писем 0..3, назад не движется (монотонность — в репозитории)
		if err := db.Exec(`
ALTER TABLE abandoned_carts
	DROP CONSTRAINT IF EXISTS chk_abandoned_carts_emails_range,
	ADD CONSTRAINT chk_abandoned_carts_emails_range
	CHECK (recovery_emails_sent >= 0 AND recovery_emails_sent <= 3);
`).Error; err != nil {
			log.Error("chk abandoned_carts.recovery_emails_sent", zap.Error(err))
			return err
		}

		log.Info("CHECK-и созданы")
	}

	// Индексы и уникальности
	if opt.CreateIndexes {
		log.Info("Создание индексов и уникальностей")

		// Вариант уникален по (product_id, size, color) без учёта регистра
		if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_variants_product_size_color_ci
ON product_variants (product_id, lower(size), lower(color));
`).Error; err != nil {
			log.Error("ux variants size_color", zap.Error(err))
			return err
		}

		// Выборка кандидатов на recovery-рассылку
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_abandoned_carts_sweep
ON abandoned_carts (status, created_at)
WHERE recovered_at IS NULL;
`).Error; err != nil {
			log.Error("ix abandoned_carts sweep", zap.Error(err))
			return err
		}

		log.Info("Индексы созданы")
	}

	// Внешние ключи
	if opt.CreateFKsViaSQL {
		log.Info("Создание внешних ключей")

		if err := db.Exec(`
ALTER TABLE product_variants
  DROP CONSTRAINT IF EXISTS fk_variants_product,
  ADD CONSTRAINT fk_variants_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk product_variants.product_id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE inventories
  DROP CONSTRAINT IF EXISTS fk_inventories_product,
  ADD CONSTRAINT fk_inventories_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk inventories.product_id", zap.Error(err))
			return err
		}

		log.Info("Внешние ключи созданы")
	}

	log.Info("Миграция базы каталога/корзин успешно завершена")
	return nil
}
