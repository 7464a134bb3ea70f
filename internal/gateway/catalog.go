package gateway

import (
	"net/http"

	"github.com/jacl-coder/PixelStorm-Survival/internal/catalog"
)

// CatalogHandler 数值表查询，供客户端展示升级与怪物图鉴
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler 创建数值表处理器
func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

// RegisterHandlers 注册HTTP处理器
func (h *CatalogHandler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/catalog/upgrades", h.handleUpgrades)
	mux.HandleFunc("/catalog/monsters", h.handleMonsters)
}

func (h *CatalogHandler) handleUpgrades(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}
	upgrades := h.catalog.AllUpgrades()
	if c := r.URL.Query().Get("category"); c != "" {
		upgrades = h.catalog.UpgradesOf(catalog.Category(c))
	}
	sendSuccess(w, "查询成功", upgrades)
}

func (h *CatalogHandler) handleMonsters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}
	sendSuccess(w, "查询成功", h.catalog.AllMonsters())
}
