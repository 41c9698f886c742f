package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SCCS Library API",
        "description": "Campus library operations backend: catalog, circulation, study rooms and appointments.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Identity", "description": "Registration and session identity"},
        {"name": "Libraries", "description": "Libraries, rooms, seats and hours"},
        {"name": "Catalog", "description": "Book catalog and copy inventory"},
        {"name": "Circulation", "description": "Reservations, loans and fees"},
        {"name": "Appointments", "description": "Librarian consultations"},
        {"name": "Study Rooms", "description": "Collaboration rooms, media and mind maps"},
        {"name": "Bulletin", "description": "Announcements, purchase requests, recommendations"},
        {"name": "Chat", "description": "Per-library chat relay"},
        {"name": "Reports", "description": "Staff exports"}
    ],
    "paths": {
        "/health": {
            "get": {"summary": "Health check", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {"summary": "Readiness check", "responses": {"200": {"description": "Ready"}, "503": {"description": "Degraded"}}}
        },
        "/register": {
            "post": {
                "tags": ["Identity"],
                "summary": "Register the bearer's identity subject",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "Already registered", "schema": {"$ref": "#/definitions/User"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/User"}}
                }
            }
        },
        "/me": {
            "get": {
                "tags": ["Identity"],
                "summary": "Current user profile",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/User"}}}
            }
        },
        "/libraries": {
            "get": {
                "tags": ["Libraries"],
                "summary": "List libraries",
                "parameters": [{"name": "type", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Library"}}}}
            }
        },
        "/libraries/labs": {
            "get": {
                "tags": ["Libraries"],
                "summary": "List computer labs",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Library"}}}}
            }
        },
        "/libraries/{library_id}/rooms": {
            "get": {
                "tags": ["Libraries"],
                "summary": "List rooms",
                "parameters": [{"name": "library_id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Libraries"],
                "summary": "Create room (staff)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "library_id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRoomRequest"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/libraries/{library_id}/hours": {
            "get": {
                "tags": ["Libraries"],
                "summary": "Operating hours",
                "parameters": [{"name": "library_id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Libraries"],
                "summary": "Bulk upsert hours (staff, invalid entries skipped)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "library_id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/HoursEntry"}}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/libraries/{library_id}/hours/{weekday}": {
            "put": {
                "tags": ["Libraries"],
                "summary": "Upsert hours for one weekday (staff)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "library_id", "in": "path", "required": true, "type": "integer"},
                    {"name": "weekday", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/HoursEntry"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/libraries/{library_id}/seats": {
            "get": {
                "tags": ["Libraries"],
                "summary": "Seat availability",
                "parameters": [
                    {"name": "library_id", "in": "path", "required": true, "type": "integer"},
                    {"name": "room_id", "in": "query", "type": "integer"},
                    {"name": "is_computer", "in": "query", "type": "boolean"},
                    {"name": "active", "in": "query", "type": "boolean"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Libraries"],
                "summary": "Create seat (staff)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "library_id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSeatRequest"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/libraries/{library_id}/computers": {
            "get": {
                "tags": ["Libraries"],
                "summary": "Computer availability",
                "parameters": [{"name": "library_id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/books": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Search books",
                "parameters": [
                    {"name": "q", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/BookSearchPage"}}}
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Create book (staff, multipart with optional cover image)",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "isbn", "in": "formData", "required": true, "type": "string"},
                    {"name": "title", "in": "formData", "required": true, "type": "string"},
                    {"name": "author", "in": "formData", "required": true, "type": "string"},
                    {"name": "publisher", "in": "formData", "type": "string"},
                    {"name": "year", "in": "formData", "type": "integer"},
                    {"name": "copies", "in": "formData", "type": "integer"},
                    {"name": "image", "in": "formData", "type": "file"}
                ],
                "responses": {"201": {"description": "Created"}, "409": {"description": "ISBN exists"}}
            }
        },
        "/books/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Book detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Catalog"],
                "summary": "Update book (staff, multipart partial)",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "patch": {
                "tags": ["Catalog"],
                "summary": "Adjust copy counters (staff)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CopyActionRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "409": {"description": "No copies to remove"}}
            }
        },
        "/reservations": {
            "get": {
                "tags": ["Circulation"],
                "summary": "List reservations",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "user_id", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Circulation"],
                "summary": "Place a hold on a book",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReserveRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "409": {"description": "No copies available"}}
            }
        },
        "/reservations/{id}/collect": {
            "post": {
                "tags": ["Circulation"],
                "summary": "Collect a reservation as a loan",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"201": {"description": "Loan created"}, "409": {"description": "Reservation not active"}}
            }
        },
        "/reservations/{id}": {
            "delete": {
                "tags": ["Circulation"],
                "summary": "Cancel a reservation",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/loans": {
            "get": {
                "tags": ["Circulation"],
                "summary": "List loans with accrued fees",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "user_id", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/loans/{id}/renew": {
            "post": {
                "tags": ["Circulation"],
                "summary": "Renew a loan",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Already returned"}}
            }
        },
        "/loans/{id}/return": {
            "post": {
                "tags": ["Circulation"],
                "summary": "Return a loan (staff)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/{user_id}/reservations": {
            "get": {
                "tags": ["Circulation"],
                "summary": "Reservations for a user",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "user_id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/{user_id}/fees": {
            "get": {
                "tags": ["Circulation"],
                "summary": "Fee statement",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "user_id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/FeeStatement"}}}
            }
        },
        "/users/{user_id}/summary": {
            "get": {
                "tags": ["Circulation"],
                "summary": "Open circulation summary",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "user_id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/feefine": {
            "post": {
                "tags": ["Circulation"],
                "summary": "Post a manual charge (staff)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PostFeeRequest"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/feefine/{id}/pay": {
            "put": {
                "tags": ["Circulation"],
                "summary": "Settle a charge",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Already paid"}}
            }
        },
        "/appointments": {
            "get": {
                "tags": ["Appointments"],
                "summary": "List appointments",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Appointments"],
                "summary": "Book a consultation",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookAppointmentRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Slot overlaps"}}
            }
        },
        "/appointments/{id}/status": {
            "put": {
                "tags": ["Appointments"],
                "summary": "Update appointment status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/study_rooms": {
            "get": {
                "tags": ["Study Rooms"],
                "summary": "List active rooms",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Study Rooms"],
                "summary": "Open a study room",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudyRoomRequest"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/study_rooms/{id}": {
            "get": {
                "tags": ["Study Rooms"],
                "summary": "Room detail (approved members)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not a member"}}
            }
        },
        "/study_rooms/{id}/join": {
            "post": {
                "tags": ["Study Rooms"],
                "summary": "Request membership",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/JoinStudyRoomRequest"}}
                ],
                "responses": {"201": {"description": "Pending"}, "409": {"description": "Already requested"}}
            }
        },
        "/study_rooms/{id}/membership": {
            "get": {
                "tags": ["Study Rooms"],
                "summary": "Own membership status",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/study_rooms/{id}/members": {
            "get": {
                "tags": ["Study Rooms"],
                "summary": "Approved members",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/study_rooms/{id}/members/pending": {
            "get": {
                "tags": ["Study Rooms"],
                "summary": "Pending join requests (creator)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/study_rooms/{id}/members/{user_id}": {
            "put": {
                "tags": ["Study Rooms"],
                "summary": "Approve or reject a join request (creator)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "user_id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/study_rooms/{id}/media": {
            "get": {
                "tags": ["Study Rooms"],
                "summary": "List uploaded media",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Study Rooms"],
                "summary": "Upload media",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/media/{media_id}": {
            "get": {
                "tags": ["Study Rooms"],
                "summary": "Download media (members of the owning room)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "media_id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "File stream"}}
            }
        },
        "/study_rooms/{id}/mindmap": {
            "get": {
                "tags": ["Study Rooms"],
                "summary": "Mind-map document (empty default, never 404)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Study Rooms"],
                "summary": "Replace mind-map document",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/announcements": {
            "get": {
                "tags": ["Bulletin"],
                "summary": "List announcements",
                "parameters": [{"name": "limit", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Bulletin"],
                "summary": "Post an announcement (staff)",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/announcements/{id}": {
            "delete": {
                "tags": ["Bulletin"],
                "summary": "Delete an announcement (staff)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/purchase_requests": {
            "get": {
                "tags": ["Bulletin"],
                "summary": "List purchase requests (staff: all, others: own)",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Bulletin"],
                "summary": "Submit a purchase request",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/recommendations": {
            "get": {
                "tags": ["Bulletin"],
                "summary": "List recommendations (staff)",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Bulletin"],
                "summary": "Submit a recommendation",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/libraries/{library_id}/chat": {
            "get": {
                "tags": ["Chat"],
                "summary": "Recent chat history",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "library_id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Chat"],
                "summary": "Post a chat message",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "library_id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PostMessageRequest"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/reports/overdue-loans": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export overdue loans (staff)",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [{"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}],
                "responses": {"200": {"description": "File stream"}}
            }
        }
    },
    "definitions": {
        "User": {
            "type": "object",
            "properties": {
                "user_id": {"type": "integer"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "Library": {
            "type": "object",
            "properties": {
                "library_id": {"type": "integer"},
                "name": {"type": "string"},
                "type": {"type": "string"},
                "location": {"type": "string"}
            }
        },
        "RegisterUserRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"}
            },
            "required": ["name", "email"]
        },
        "CreateRoomRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "capacity": {"type": "integer"}
            },
            "required": ["name"]
        },
        "CreateSeatRequest": {
            "type": "object",
            "properties": {
                "room_id": {"type": "integer"},
                "label": {"type": "string"},
                "is_computer": {"type": "boolean"}
            },
            "required": ["room_id", "label"]
        },
        "HoursEntry": {
            "type": "object",
            "properties": {
                "weekday": {"type": "string"},
                "open_time": {"type": "string"},
                "close_time": {"type": "string"}
            },
            "required": ["weekday", "open_time", "close_time"]
        },
        "BookSearchPage": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"type": "object"}},
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "per_page": {"type": "integer"},
                "pages": {"type": "integer"}
            }
        },
        "CopyActionRequest": {
            "type": "object",
            "properties": {
                "action": {"type": "string", "enum": ["add", "remove"]}
            },
            "required": ["action"]
        },
        "ReserveRequest": {
            "type": "object",
            "properties": {
                "book_id": {"type": "integer"},
                "library_id": {"type": "integer"},
                "reserved_until": {"type": "string", "format": "date-time"}
            },
            "required": ["book_id", "library_id"]
        },
        "PostFeeRequest": {
            "type": "object",
            "properties": {
                "user_id": {"type": "integer"},
                "amount_cents": {"type": "integer"},
                "reason": {"type": "string"}
            },
            "required": ["user_id", "amount_cents"]
        },
        "FeeStatement": {
            "type": "object",
            "properties": {
                "posted": {"type": "array", "items": {"type": "object"}},
                "accrued": {"type": "array", "items": {"type": "object"}},
                "total_cents": {"type": "integer"}
            }
        },
        "BookAppointmentRequest": {
            "type": "object",
            "properties": {
                "librarian_user_id": {"type": "integer"},
                "library_id": {"type": "integer"},
                "start_datetime": {"type": "string"},
                "end_datetime": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["librarian_user_id", "library_id", "start_datetime", "end_datetime"]
        },
        "StatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string"}
            },
            "required": ["status"]
        },
        "CreateStudyRoomRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"}
            },
            "required": ["name"]
        },
        "JoinStudyRoomRequest": {
            "type": "object",
            "properties": {
                "student_number": {"type": "string"},
                "student_email": {"type": "string"}
            },
            "required": ["student_number", "student_email"]
        },
        "PostMessageRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"}
            },
            "required": ["text"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
