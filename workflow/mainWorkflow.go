package workflow

import (
	"context"
	"slices"
	"strings"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("erp_backend/workflow")

// runDocumentTransition executes fn as one atomic unit on a single document:
// document lock, transaction, fn, commit. Any error from fn rolls back every
// write it made and is returned unchanged.
func runDocumentTransition(ctx context.Context, docType DocumentType, id int, name string, fn func(tx *gorm.DB, tenantId string) error) error {
	tenantId, err := utils.RequireTenantId(ctx)
	if err != nil {
		return err
	}
	ctx, span := tracer.Start(ctx, "workflow."+name, trace.WithAttributes(
		attribute.String("tenant_id", tenantId),
		attribute.String("document_type", string(docType)),
		attribute.Int("document_id", id),
	))
	defer span.End()

	err = runLocked(ctx, tenantId, docType, id, fn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, utils.PublicMessage(err))
		if utils.ErrorKindOf(err) == utils.ErrorKindDatabase {
			config.LogError(config.GetLogger(), "workflow", name, string(docType), id, err)
		}
		return err
	}
	utils.BumpTenantCacheGeneration(ctx, tenantId)
	return nil
}

func runLocked(ctx context.Context, tenantId string, docType DocumentType, id int, fn func(tx *gorm.DB, tenantId string) error) error {
	release, err := AcquireDocumentLock(ctx, tenantId, docType, id)
	if err != nil {
		return err
	}
	defer release()

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return utils.DatabaseError(tx.Error)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if err := fn(tx, tenantId); err != nil {
		return utils.DatabaseError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.DatabaseError(err)
	}
	committed = true
	return nil
}

// requireStatus fails with a BusinessRule error naming the current and the
// required status when current is not one of allowed.
func requireStatus[S ~string](action string, entity string, current S, allowed ...S) error {
	if slices.Contains(allowed, current) {
		return nil
	}
	names := make([]string, 0, len(allowed))
	for _, s := range allowed {
		names = append(names, string(s))
	}
	return utils.BusinessRuleError("cannot %s %s with status %s, must be %s",
		action, entity, current, strings.Join(names, " or "))
}

// updateStatus writes the given columns on one tenant row.
func updateStatus(tx *gorm.DB, model any, tenantId string, id int, updates map[string]interface{}) error {
	res := tx.Model(model).Where("tenant_id = ? AND id = ?", tenantId, id).Updates(updates)
	if res.Error != nil {
		return utils.DatabaseError(res.Error)
	}
	if res.RowsAffected != 1 {
		return utils.DatabaseError(gorm.ErrRecordNotFound)
	}
	return nil
}
