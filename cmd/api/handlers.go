package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pos-platform/sales-service/internal/application"
	"github.com/pos-platform/sales-service/internal/domain"
	apperrors "github.com/pos-platform/sales-service/pkg/errors"
	"github.com/pos-platform/sales-service/pkg/middleware"
)

// toAppError maps typed domain errors onto transport responses. The
// application layer never string-matches; all mapping lives here.
func toAppError(err error) *apperrors.AppError {
	var productNotFound *domain.ProductNotFoundError
	if errors.As(err, &productNotFound) {
		return apperrors.ErrNotFoundWithID("product", productNotFound.ProductID)
	}

	var txnNotFound *domain.TransactionNotFoundError
	if errors.As(err, &txnNotFound) {
		return apperrors.ErrNotFoundWithID("transaction", txnNotFound.TransactionID)
	}

	var orderNotFound *domain.PendingOrderNotFoundError
	if errors.As(err, &orderNotFound) {
		return apperrors.ErrNotFoundWithID("pending order", orderNotFound.OrderID)
	}

	var customerNotFound *domain.CustomerNotFoundError
	if errors.As(err, &customerNotFound) {
		return apperrors.ErrNotFoundWithID("customer", customerNotFound.CustomerID)
	}

	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return apperrors.ErrConflict(insufficient.Error()).
			WithDetail("productId", insufficient.ProductID)
	}

	var duplicate *domain.DuplicateNameError
	if errors.As(err, &duplicate) {
		return apperrors.ErrConflict(duplicate.Error())
	}

	var exhausted *domain.RetryExhaustedError
	if errors.As(err, &exhausted) {
		return apperrors.ErrServiceUnavailable("sales-service").Wrap(err)
	}

	var integrity *domain.DataIntegrityError
	if errors.As(err, &integrity) {
		return apperrors.ErrInternal("stored data is inconsistent").Wrap(err)
	}

	var actorNotFound *domain.ActorNotFoundError
	if errors.As(err, &actorNotFound) {
		return apperrors.ErrInternal("acting user could not be resolved").Wrap(err)
	}

	return apperrors.FromError(err)
}

func respondError(c *gin.Context, err error) {
	middleware.AbortWithAppError(c, toAppError(err))
}

func createSaleHandler(service *application.SalesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input application.SaleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			middleware.AbortWithAppError(c, apperrors.ErrBadRequest(err.Error()))
			return
		}

		sale, err := service.CreateSale(c.Request.Context(), input, middleware.GetUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, sale)
	}
}

func updateSaleHandler(service *application.SalesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input application.SaleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			middleware.AbortWithAppError(c, apperrors.ErrBadRequest(err.Error()))
			return
		}

		sale, err := service.UpdateSale(c.Request.Context(), c.Param("id"), input, middleware.GetUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sale)
	}
}

func deleteSaleHandler(service *application.SalesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.DeleteSale(c.Request.Context(), c.Param("id"), middleware.GetUserID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func getSaleHandler(service *application.SalesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sale, err := service.GetSale(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sale)
	}
}

func listSalesHandler(service *application.SalesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		to := time.Now().UTC()
		from := to.AddDate(0, 0, -1)

		if raw := c.Query("from"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				middleware.AbortWithAppError(c, apperrors.ErrBadRequest("invalid 'from' timestamp"))
				return
			}
			from = parsed
		}
		if raw := c.Query("to"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				middleware.AbortWithAppError(c, apperrors.ErrBadRequest("invalid 'to' timestamp"))
				return
			}
			to = parsed
		}

		sales, err := service.ListSales(c.Request.Context(), from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": sales, "count": len(sales)})
	}
}

func createProductHandler(service *application.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input application.ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			middleware.AbortWithAppError(c, apperrors.ErrBadRequest(err.Error()))
			return
		}

		product, err := service.CreateProduct(c.Request.Context(), input, middleware.GetUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func updateProductHandler(service *application.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input application.ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			middleware.AbortWithAppError(c, apperrors.ErrBadRequest(err.Error()))
			return
		}

		product, err := service.UpdateProduct(c.Request.Context(), c.Param("id"), input, middleware.GetUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func deleteProductHandler(service *application.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.DeleteProduct(c.Request.Context(), c.Param("id"), middleware.GetUserID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func getProductHandler(service *application.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := service.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func listProductsHandler(service *application.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		includeDeleted := c.Query("includeDeleted") == "true"

		products, err := service.ListProducts(c.Request.Context(), includeDeleted)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
	}
}

func createCustomerHandler(service *application.CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input application.CustomerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			middleware.AbortWithAppError(c, apperrors.ErrBadRequest(err.Error()))
			return
		}

		customer, err := service.CreateCustomer(c.Request.Context(), input, middleware.GetUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, customer)
	}
}

func updateCustomerHandler(service *application.CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input application.CustomerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			middleware.AbortWithAppError(c, apperrors.ErrBadRequest(err.Error()))
			return
		}

		customer, err := service.UpdateCustomer(c.Request.Context(), c.Param("id"), input, middleware.GetUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

func deleteCustomerHandler(service *application.CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.DeleteCustomer(c.Request.Context(), c.Param("id"), middleware.GetUserID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func getCustomerHandler(service *application.CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, err := service.GetCustomer(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

func listCustomersHandler(service *application.CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		includeDeleted := c.Query("includeDeleted") == "true"

		customers, err := service.ListCustomers(c.Request.Context(), includeDeleted)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"customers": customers, "count": len(customers)})
	}
}

func listPendingOrdersHandler(service *application.PendingOrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := service.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"pendingOrders": orders, "count": len(orders)})
	}
}

func getPendingOrderHandler(service *application.PendingOrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := service.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func setPendingOrderStatusHandler(service *application.PendingOrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.AbortWithAppError(c, apperrors.ErrBadRequest(err.Error()))
			return
		}

		order, err := service.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func acknowledgePendingOrderHandler(service *application.PendingOrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := service.Acknowledge(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func listActivitiesHandler(service *application.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := int64(100)
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed <= 0 {
				middleware.AbortWithAppError(c, apperrors.ErrBadRequest("invalid 'limit'"))
				return
			}
			limit = parsed
		}

		entries, err := service.List(c.Request.Context(), limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"activities": entries, "count": len(entries)})
	}
}
