package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jnineawiwii/maquillaje-mac/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// GET /admin/ventas
// The sales report values each row at the product's current price, like the
// original ledger view; order totals stay frozen on the orders themselves.
func ListVentas(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ventas []models.Venta
		if err := db.Preload("Product").Order("fecha DESC").Find(&ventas).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch sales"})
			return
		}

		var total float64
		for _, v := range ventas {
			total += v.Product.Price * float64(v.Quantity)
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "ventas": ventas, "total_general": total})
	}
}

// GET /admin/ventas/export-excel
func ExportVentasToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ventas []models.Venta
		if err := db.Preload("Product").Order("fecha DESC").Find(&ventas).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch sales"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Ventas")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create sheet"})
			return
		}

		headerRow := sheet.AddRow()
		for _, h := range []string{"ID", "Product", "Category", "UnitPrice", "Quantity", "LineTotal", "UserID", "Fecha"} {
			headerRow.AddCell().SetValue(h)
		}

		for _, v := range ventas {
			row := sheet.AddRow()
			row.AddCell().SetValue(v.ID)
			row.AddCell().SetValue(v.Product.Name)
			row.AddCell().SetValue(v.Product.Category)
			row.AddCell().SetValue(v.Product.Price)
			row.AddCell().SetValue(v.Quantity)
			row.AddCell().SetValue(v.Product.Price * float64(v.Quantity))
			row.AddCell().SetValue(v.UserID)
			row.AddCell().SetValue(v.Fecha.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=ventas.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to write excel file"})
			return
		}
	}
}
