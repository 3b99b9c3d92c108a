package routers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smilefnb/smile_backend/models"
	"github.com/smilefnb/smile_backend/utils"
)

func RegisterOrderRoutes(r *gin.RouterGroup) {
	r.GET("/", getAllOrders)
	r.GET("/table/:tableId", getOrdersByTable)
	r.POST("/", createOrder)
	r.POST("/table/:tableId/item", upsertOrderItem)
	r.PUT("/table/:tableId/dish/:dishName", updateOrderQuantity)
	r.PUT("/table/:tableId/dish/:dishName/note", updateOrderNote)
	r.DELETE("/table/:tableId/dish/:dishName", deleteOrderByTableAndDish)
	r.DELETE("/by-table/:tableId", deleteOrdersByTable)
	r.DELETE("/", deleteAllOrders)
	r.DELETE("/:orderId", deleteOrderById)
}

func orderMissDetail(tableId int, dishName string) string {
	return fmt.Sprintf("Order not found for table %d and dish '%s'", tableId, dishName)
}

func getAllOrders(c *gin.Context) {
	orders, err := models.GetAllOrders(c.Request.Context())
	if err != nil {
		storageError(c, "getAllOrders", nil, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func getOrdersByTable(c *gin.Context) {
	tableId, ok := tableIdParam(c)
	if !ok {
		return
	}

	orders, err := models.GetOrdersByTable(c.Request.Context(), tableId)
	if err != nil {
		storageError(c, "getOrdersByTable", tableId, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func createOrder(c *gin.Context) {
	var input models.NewOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		validationError(c, err)
		return
	}

	order, err := models.CreateOrder(c.Request.Context(), &input)
	if err != nil {
		storageError(c, "createOrder", input, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func upsertOrderItem(c *gin.Context) {
	tableId, ok := tableIdParam(c)
	if !ok {
		return
	}
	var input models.NewOrderItem
	if err := c.ShouldBindJSON(&input); err != nil {
		validationError(c, err)
		return
	}

	order, err := models.UpsertOrderItem(c.Request.Context(), tableId, &input)
	if err != nil {
		storageError(c, "upsertOrderItem", input, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func updateOrderQuantity(c *gin.Context) {
	tableId, ok := tableIdParam(c)
	if !ok {
		return
	}
	dishName := dishNameParam(c)

	var input models.OrderQuantityUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		validationError(c, err)
		return
	}

	order, err := models.UpdateOrderQuantity(c.Request.Context(), tableId, dishName, &input)
	if err != nil {
		storageError(c, "updateOrderQuantity", input, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order quantity updated successfully", "order": order})
}

func updateOrderNote(c *gin.Context) {
	tableId, ok := tableIdParam(c)
	if !ok {
		return
	}
	dishName := dishNameParam(c)

	var input models.OrderNoteUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		validationError(c, err)
		return
	}

	order, err := models.UpdateOrderNote(c.Request.Context(), tableId, dishName, &input)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			notFound(c, orderMissDetail(tableId, dishName))
			return
		}
		storageError(c, "updateOrderNote", input, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order note updated successfully", "order": order})
}

func deleteOrderByTableAndDish(c *gin.Context) {
	tableId, ok := tableIdParam(c)
	if !ok {
		return
	}
	dishName := dishNameParam(c)

	if err := models.DeleteOrderByTableAndDish(c.Request.Context(), tableId, dishName); err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			notFound(c, orderMissDetail(tableId, dishName))
			return
		}
		storageError(c, "deleteOrderByTableAndDish", dishName, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}

func deleteOrdersByTable(c *gin.Context) {
	tableId, ok := tableIdParam(c)
	if !ok {
		return
	}

	deleted, err := models.DeleteOrdersByTable(c.Request.Context(), tableId)
	if err != nil {
		storageError(c, "deleteOrdersByTable", tableId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Orders deleted successfully", "deleted": deleted})
}

func deleteAllOrders(c *gin.Context) {
	if err := models.DeleteAllOrders(c.Request.Context()); err != nil {
		storageError(c, "deleteAllOrders", nil, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All orders deleted successfully"})
}

func deleteOrderById(c *gin.Context) {
	orderId, ok := idParam(c, "orderId")
	if !ok {
		return
	}

	if err := models.DeleteOrderById(c.Request.Context(), orderId); err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			notFound(c, "Order not found")
			return
		}
		storageError(c, "deleteOrderById", orderId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}
