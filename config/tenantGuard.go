package config

import (
	"context"
	"reflect"
	"slices"
	"strings"

	"github.com/mmdatafocus/erp_backend/appctx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

const tenantColumn = "tenant_id"

// TenantGuardPlugin scopes every query, row, update and delete on a model
// with a tenant_id column to the tenant of the statement context, and stamps
// that tenant on created rows that leave tenant_id empty. Raw SQL is not
// scoped. SkipTenantScope in the context turns the guard off.
type TenantGuardPlugin struct{}

func NewTenantGuardPlugin() *TenantGuardPlugin { return &TenantGuardPlugin{} }

func (p *TenantGuardPlugin) Name() string { return "tenant_guard" }

func (p *TenantGuardPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	steps := []func() error{
		func() error {
			return cb.Create().Before("gorm:create").Register("tenant_guard:create", tenantStampCallback)
		},
		func() error {
			return cb.Query().Before("gorm:query").Register("tenant_guard:query", tenantGuardCallback)
		},
		func() error {
			return cb.Row().Before("gorm:row").Register("tenant_guard:row", tenantGuardCallback)
		},
		func() error {
			return cb.Update().Before("gorm:update").Register("tenant_guard:update", tenantGuardCallback)
		},
		func() error {
			return cb.Delete().Before("gorm:delete").Register("tenant_guard:delete", tenantGuardCallback)
		},
	}
	for _, register := range steps {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}

func tenantGuardCallback(db *gorm.DB) {
	tenantID, ok := scopedTenant(db)
	if !ok {
		return
	}

	if whereHasTenantID(db.Statement.Clauses["WHERE"]) {
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: db.Statement.Table, Name: tenantColumn},
				Value:  tenantID,
			},
		},
	})
}

func tenantStampCallback(db *gorm.DB) {
	tenantID, ok := scopedTenant(db)
	if !ok {
		return
	}
	field := db.Statement.Schema.LookUpField(tenantColumn)
	if field == nil {
		return
	}
	ctx := db.Statement.Context
	rv := reflect.Indirect(db.Statement.ReflectValue)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			stampTenant(ctx, db, field, reflect.Indirect(rv.Index(i)), tenantID)
		}
	case reflect.Struct:
		stampTenant(ctx, db, field, rv, tenantID)
	}
}

func stampTenant(ctx context.Context, db *gorm.DB, field *schema.Field, rv reflect.Value, tenantID string) {
	if rv.Kind() != reflect.Struct {
		return
	}
	if _, zero := field.ValueOf(ctx, rv); !zero {
		return
	}
	if err := field.Set(ctx, rv, tenantID); err != nil {
		db.AddError(err)
	}
}

// scopedTenant returns the tenant to scope by when the statement's model
// carries a tenant_id column and the context is not bypassed.
func scopedTenant(db *gorm.DB) (string, bool) {
	if db == nil || db.Statement == nil {
		return "", false
	}
	ctx := db.Statement.Context
	if ctx == nil {
		return "", false
	}
	if shouldBypassTenantScope(ctx) {
		return "", false
	}
	tenantID := tenantIdFromContext(ctx)
	if tenantID == "" {
		return "", false
	}
	if db.Statement.Schema == nil {
		return "", false
	}
	for _, f := range db.Statement.Schema.Fields {
		if strings.EqualFold(f.DBName, tenantColumn) {
			return tenantID, true
		}
	}
	return "", false
}

func tenantIdFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(appctx.ContextKeyTenantId).(string); ok && v != "" {
		return v
	}
	return ""
}

func shouldBypassTenantScope(ctx context.Context) bool {
	v, ok := ctx.Value(appctx.ContextKeySkipTenantScope).(bool)
	return ok && v
}

func whereHasTenantID(c clause.Clause) bool {
	if c.Expression == nil {
		return false
	}
	w, ok := c.Expression.(clause.Where)
	if !ok {
		return false
	}
	return slices.ContainsFunc(w.Exprs, exprHasTenantID)
}

func exprHasTenantID(e clause.Expression) bool {
	switch v := e.(type) {
	case clause.Eq:
		return colIsTenantID(v.Column)
	case clause.Neq:
		return colIsTenantID(v.Column)
	case clause.IN:
		return colIsTenantID(v.Column)
	case clause.AndConditions:
		return slices.ContainsFunc(v.Exprs, exprHasTenantID)
	case clause.OrConditions:
		return slices.ContainsFunc(v.Exprs, exprHasTenantID)
	case clause.Expr:
		// models write "tenant_id = ?" by hand
		return strings.Contains(strings.ToLower(v.SQL), tenantColumn)
	}
	return false
}

func colIsTenantID(col any) bool {
	switch c := col.(type) {
	case string:
		return strings.EqualFold(c, tenantColumn)
	case clause.Column:
		return strings.EqualFold(c.Name, tenantColumn)
	default:
		return false
	}
}
