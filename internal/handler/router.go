package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/HackGhosT04/sccs-library-db/internal/middleware"
	"github.com/HackGhosT04/sccs-library-db/internal/service"
)

// Handlers bundles the HTTP handlers registered by RegisterRoutes.
type Handlers struct {
	Identity     *IdentityHandler
	Library      *LibraryHandler
	Catalog      *CatalogHandler
	Circulation  *CirculationHandler
	Appointments *AppointmentHandler
	StudyRooms   *StudyRoomHandler
	Bulletin     *BulletinHandler
	Chat         *ChatHandler
	Reports      *ReportHandler
}

// RegisterRoutes mounts the API route table on the given router group.
// Read-only discovery endpoints and registration stay public; everything
// else sits behind the identity gate, with the staff middleware layered on
// top of the service-level role checks for staff-only routes.
func RegisterRoutes(r gin.IRouter, h Handlers, identity *service.IdentityService) {
	// Public surface: registration plus read-only discovery.
	r.POST("/register", h.Identity.Register)

	r.GET("/libraries", h.Library.List)
	r.GET("/libraries/labs", h.Library.ListLabs)
	r.GET("/libraries/:library_id/rooms", h.Library.ListRooms)
	r.GET("/libraries/:library_id/hours", h.Library.ListHours)
	r.GET("/libraries/:library_id/seats", h.Library.ListSeats)
	r.GET("/libraries/:library_id/computers", h.Library.ListComputers)

	r.GET("/books", h.Catalog.Search)
	r.GET("/books/:id", h.Catalog.Get)

	r.GET("/announcements", h.Bulletin.ListAnnouncements)

	auth := r.Group("", middleware.Identity(identity))
	staff := auth.Group("", middleware.RequireStaff())

	auth.GET("/me", h.Identity.Me)

	staff.POST("/libraries/:library_id/rooms", h.Library.CreateRoom)
	staff.PUT("/libraries/:library_id/hours", h.Library.SetHours)
	staff.PUT("/libraries/:library_id/hours/:weekday", h.Library.SetHoursDay)
	staff.POST("/libraries/:library_id/seats", h.Library.CreateSeat)
	staff.PUT("/libraries/:library_id/seats/:seat_id", h.Library.UpdateSeat)
	staff.PUT("/libraries/:library_id/computers/:seat_id", h.Library.UpdateSeat)

	staff.POST("/books", h.Catalog.Create)
	staff.PUT("/books/:id", h.Catalog.Update)
	staff.PATCH("/books/:id/status", h.Catalog.UpdateCopies)

	auth.POST("/reservations", h.Circulation.Reserve)
	auth.GET("/reservations", h.Circulation.ListReservations)
	auth.POST("/reservations/:id/collect", h.Circulation.Collect)
	auth.DELETE("/reservations/:id", h.Circulation.Cancel)
	auth.GET("/loans", h.Circulation.ListLoans)
	auth.POST("/loans/:id/renew", h.Circulation.Renew)
	staff.POST("/loans/:id/return", h.Circulation.Return)
	auth.GET("/users/:user_id/reservations", h.Circulation.UserReservations)
	auth.GET("/users/:user_id/fees", h.Circulation.Fees)
	auth.GET("/users/:user_id/summary", h.Circulation.Summary)
	staff.POST("/feefine", h.Circulation.PostFee)
	auth.PUT("/feefine/:id/pay", h.Circulation.PayFee)

	auth.POST("/appointments", h.Appointments.Book)
	auth.GET("/appointments", h.Appointments.List)
	auth.PUT("/appointments/:id/status", h.Appointments.UpdateStatus)

	auth.POST("/study_rooms", h.StudyRooms.Create)
	auth.GET("/study_rooms", h.StudyRooms.List)
	auth.GET("/study_rooms/:id", h.StudyRooms.Get)
	auth.POST("/study_rooms/:id/join", h.StudyRooms.Join)
	auth.GET("/study_rooms/:id/membership", h.StudyRooms.Membership)
	auth.GET("/study_rooms/:id/members", h.StudyRooms.Members)
	auth.GET("/study_rooms/:id/members/pending", h.StudyRooms.PendingMembers)
	auth.PUT("/study_rooms/:id/members/:user_id", h.StudyRooms.ResolveMember)
	auth.POST("/study_rooms/:id/media", h.StudyRooms.UploadMedia)
	auth.GET("/study_rooms/:id/media", h.StudyRooms.ListMedia)
	auth.GET("/media/:media_id", h.StudyRooms.DownloadMedia)
	auth.GET("/study_rooms/:id/mindmap", h.StudyRooms.MindMap)
	auth.POST("/study_rooms/:id/mindmap", h.StudyRooms.SaveMindMap)

	staff.POST("/announcements", h.Bulletin.CreateAnnouncement)
	staff.DELETE("/announcements/:id", h.Bulletin.DeleteAnnouncement)
	auth.POST("/purchase_requests", h.Bulletin.CreatePurchaseRequest)
	auth.GET("/purchase_requests", h.Bulletin.ListPurchaseRequests)
	auth.POST("/recommendations", h.Bulletin.CreateRecommendation)
	staff.GET("/recommendations", h.Bulletin.ListRecommendations)

	auth.GET("/libraries/:library_id/chat", h.Chat.History)
	auth.POST("/libraries/:library_id/chat", h.Chat.Post)

	staff.GET("/reports/overdue-loans", h.Reports.OverdueLoans)
}
