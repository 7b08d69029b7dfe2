package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
)

func runSubscriptionRouter(secureGroup *echo.Group, subscriptionCtrl *controllers.SubscriptionController) {
	{
		secureGroup.GET("/subscriptions", subscriptionCtrl.GetSubscriptions)
		secureGroup.POST("/subscriptions", subscriptionCtrl.CreateSubscription)
		secureGroup.GET("/subscriptions/:id", subscriptionCtrl.FindSubscription)
		secureGroup.PUT("/subscriptions/:id", subscriptionCtrl.UpdateSubscription)
		secureGroup.DELETE("/subscriptions/:id", subscriptionCtrl.DeleteSubscription)
		secureGroup.POST("/subscriptions/:id/invoices", subscriptionCtrl.UploadInvoice)
		secureGroup.GET("/subscriptions/:id/invoices", subscriptionCtrl.GetInvoices)
	}
}
