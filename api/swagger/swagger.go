package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SLMS API",
        "description": "Student lifecycle management: admissions, students, attendance, stipends and alumni.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Admissions"
        },
        {
            "name": "Students"
        },
        {
            "name": "Alumni"
        },
        {
            "name": "Attendance"
        },
        {
            "name": "Routines"
        },
        {
            "name": "Marks"
        },
        {
            "name": "Stipends"
        },
        {
            "name": "Corrections"
        },
        {
            "name": "Departments"
        },
        {
            "name": "Users"
        },
        {
            "name": "System"
        }
    ],
    "paths": {
        "/admissions": {
            "get": {
                "tags": [
                    "Admissions"
                ],
                "summary": "List admissions for review",
                "parameters": [
                    {
                        "name": "status",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "department",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "session",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Admissions"
                ],
                "summary": "Submit an admission application",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SubmitAdmissionRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admissions/clear-draft": {
            "delete": {
                "tags": [
                    "Admissions"
                ],
                "summary": "Discard the admission wizard draft",
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admissions/draft": {
            "get": {
                "tags": [
                    "Admissions"
                ],
                "summary": "Get the admission wizard draft",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "put": {
                "tags": [
                    "Admissions"
                ],
                "summary": "Save the admission wizard draft",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SaveDraftRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Admissions"
                ],
                "summary": "Discard the admission wizard draft",
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admissions/get-draft": {
            "get": {
                "tags": [
                    "Admissions"
                ],
                "summary": "Get the admission wizard draft",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admissions/me": {
            "get": {
                "tags": [
                    "Admissions"
                ],
                "summary": "Get the caller's submitted admission",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admissions/reapply": {
            "post": {
                "tags": [
                    "Admissions"
                ],
                "summary": "Reopen the caller's rejected admission",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admissions/save-draft": {
            "post": {
                "tags": [
                    "Admissions"
                ],
                "summary": "Save the admission wizard draft",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SaveDraftRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admissions/upload-documents": {
            "post": {
                "tags": [
                    "Admissions"
                ],
                "summary": "Upload admission documents",
                "consumes": [
                    "multipart/form-data"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admissions/{ref}": {
            "get": {
                "tags": [
                    "Admissions"
                ],
                "summary": "Get an admission by ID or application ID",
                "parameters": [
                    {
                        "name": "ref",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admissions/{ref}/approve": {
            "post": {
                "tags": [
                    "Admissions"
                ],
                "summary": "Approve an admission and enroll the student",
                "parameters": [
                    {
                        "name": "ref",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ApproveAdmissionRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admissions/{ref}/documents/{field}/url": {
            "get": {
                "tags": [
                    "Admissions"
                ],
                "summary": "Issue a signed download link for an admission document",
                "parameters": [
                    {
                        "name": "ref",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "field",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admissions/{ref}/reject": {
            "post": {
                "tags": [
                    "Admissions"
                ],
                "summary": "Reject an admission",
                "parameters": [
                    {
                        "name": "ref",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ReviewNotes"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/alumni": {
            "get": {
                "tags": [
                    "Alumni"
                ],
                "summary": "List alumni",
                "parameters": [
                    {
                        "name": "type",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "support",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "graduationYear",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/alumni/{id}": {
            "get": {
                "tags": [
                    "Alumni"
                ],
                "summary": "Get an alumni profile",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "patch": {
                "tags": [
                    "Alumni"
                ],
                "summary": "Update alumni contact and bio fields",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateAlumniRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/alumni/{id}/lists/{list}": {
            "post": {
                "tags": [
                    "Alumni"
                ],
                "summary": "Append an entry to a profile list",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "list",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/alumni/{id}/lists/{list}/{entryId}": {
            "put": {
                "tags": [
                    "Alumni"
                ],
                "summary": "Replace an entry of a profile list",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "list",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "entryId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Alumni"
                ],
                "summary": "Remove an entry from a profile list",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "list",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "entryId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/alumni/{id}/support-category": {
            "post": {
                "tags": [
                    "Alumni"
                ],
                "summary": "Change the support category of an alumni",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ChangeSupportRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/attendance": {
            "get": {
                "tags": [
                    "Attendance"
                ],
                "summary": "List attendance records",
                "parameters": [
                    {
                        "name": "studentId",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "subjectCode",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "routineId",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "semester",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "from",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    },
                    {
                        "name": "offset",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Attendance"
                ],
                "summary": "Record attendance for one or many students",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/RecordAttendanceRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/attendance/approval": {
            "post": {
                "tags": [
                    "Attendance"
                ],
                "summary": "Approve or reject pending attendance records",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AttendanceDecisionRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/attendance/pending": {
            "get": {
                "tags": [
                    "Attendance"
                ],
                "summary": "List attendance records awaiting review",
                "parameters": [
                    {
                        "name": "routineId",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "from",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/attendance/review": {
            "post": {
                "tags": [
                    "Attendance"
                ],
                "summary": "Approve or reject pending attendance records",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AttendanceDecisionRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/attendance/student_summary": {
            "get": {
                "tags": [
                    "Attendance"
                ],
                "summary": "Per-subject attendance summary of a student",
                "parameters": [
                    {
                        "name": "student",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "semester",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/attendance/submit": {
            "post": {
                "tags": [
                    "Attendance"
                ],
                "summary": "Submit captain drafts for review",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AttendanceIDs"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/correction-requests": {
            "get": {
                "tags": [
                    "Corrections"
                ],
                "summary": "List correction requests",
                "parameters": [
                    {
                        "name": "status",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "studentId",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    },
                    {
                        "name": "offset",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Corrections"
                ],
                "summary": "Request a correction of a student field",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateCorrectionRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/correction-requests/{id}": {
            "get": {
                "tags": [
                    "Corrections"
                ],
                "summary": "Get a correction request",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/correction-requests/{id}/approve": {
            "post": {
                "tags": [
                    "Corrections"
                ],
                "summary": "Approve a correction and apply it",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/correction-requests/{id}/reject": {
            "post": {
                "tags": [
                    "Corrections"
                ],
                "summary": "Reject a correction",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ReviewNotes"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/departments": {
            "get": {
                "tags": [
                    "Departments"
                ],
                "summary": "List departments",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Departments"
                ],
                "summary": "Create a department",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/DepartmentRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/departments/{id}": {
            "get": {
                "tags": [
                    "Departments"
                ],
                "summary": "Get a department",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "put": {
                "tags": [
                    "Departments"
                ],
                "summary": "Update a department",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/DepartmentRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Departments"
                ],
                "summary": "Delete a department without students",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/documents/download": {
            "get": {
                "tags": [
                    "Admissions"
                ],
                "summary": "Download a document through a signed token",
                "produces": [
                    "application/octet-stream"
                ],
                "parameters": [
                    {
                        "name": "token",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File"
                    }
                }
            }
        },
        "/marks": {
            "post": {
                "tags": [
                    "Marks"
                ],
                "summary": "Record exam marks",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateMarksRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/marks/student_marks": {
            "get": {
                "tags": [
                    "Marks"
                ],
                "summary": "List exam marks",
                "parameters": [
                    {
                        "name": "student",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "semester",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    },
                    {
                        "name": "subject",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "examType",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/routines": {
            "get": {
                "tags": [
                    "Routines"
                ],
                "summary": "List class routines",
                "parameters": [
                    {
                        "name": "department",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "session",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "semester",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    },
                    {
                        "name": "shift",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Routines"
                ],
                "summary": "Create a class routine slot",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateRoutineRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/routines/{id}": {
            "get": {
                "tags": [
                    "Routines"
                ],
                "summary": "Get a class routine slot",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/stipends/calculate": {
            "get": {
                "tags": [
                    "Stipends"
                ],
                "summary": "Evaluate students against a criteria or ad-hoc thresholds",
                "parameters": [
                    {
                        "name": "criteria",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "minAttendance",
                        "in": "query",
                        "required": false,
                        "type": "number"
                    },
                    {
                        "name": "minGpa",
                        "in": "query",
                        "required": false,
                        "type": "number"
                    },
                    {
                        "name": "passRequirement",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "department",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "semester",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    },
                    {
                        "name": "shift",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "session",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/stipends/criteria": {
            "get": {
                "tags": [
                    "Stipends"
                ],
                "summary": "List stipend criteria",
                "parameters": [
                    {
                        "name": "active",
                        "in": "query",
                        "required": false,
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Stipends"
                ],
                "summary": "Create a stipend criteria",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CriteriaRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/stipends/criteria/{id}": {
            "get": {
                "tags": [
                    "Stipends"
                ],
                "summary": "Get a stipend criteria",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "put": {
                "tags": [
                    "Stipends"
                ],
                "summary": "Replace a stipend criteria",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CriteriaRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/stipends/eligibility": {
            "get": {
                "tags": [
                    "Stipends"
                ],
                "summary": "List saved eligibility rows of a criteria",
                "parameters": [
                    {
                        "name": "criteria",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Stipends"
                ],
                "summary": "Persist eligibility snapshots and rerank the criteria",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SaveEligibilityRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/stipends/eligibility/calculate": {
            "get": {
                "tags": [
                    "Stipends"
                ],
                "summary": "Evaluate students against a criteria or ad-hoc thresholds",
                "parameters": [
                    {
                        "name": "criteria",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "minAttendance",
                        "in": "query",
                        "required": false,
                        "type": "number"
                    },
                    {
                        "name": "minGpa",
                        "in": "query",
                        "required": false,
                        "type": "number"
                    },
                    {
                        "name": "passRequirement",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "department",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "semester",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    },
                    {
                        "name": "shift",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "session",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/stipends/eligibility/roster": {
            "get": {
                "tags": [
                    "Stipends"
                ],
                "summary": "Download the ranked roster of a criteria as PDF",
                "produces": [
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "criteria",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "PDF"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/stipends/eligibility/save_eligibility": {
            "post": {
                "tags": [
                    "Stipends"
                ],
                "summary": "Persist eligibility snapshots and rerank the criteria",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SaveEligibilityRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/stipends/eligibility/{id}/approve": {
            "post": {
                "tags": [
                    "Stipends"
                ],
                "summary": "Approve a saved eligibility row",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/stipends/eligibility/{id}/unapprove": {
            "post": {
                "tags": [
                    "Stipends"
                ],
                "summary": "Withdraw approval of an eligibility row",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/students": {
            "get": {
                "tags": [
                    "Students"
                ],
                "summary": "List students",
                "parameters": [
                    {
                        "name": "department",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "semester",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    },
                    {
                        "name": "shift",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "session",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/students/fix-orphans": {
            "post": {
                "tags": [
                    "Students"
                ],
                "summary": "Revert graduated students that have no alumni profile",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/students/me": {
            "get": {
                "tags": [
                    "Students"
                ],
                "summary": "Get the caller's student record",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/students/{id}": {
            "get": {
                "tags": [
                    "Students"
                ],
                "summary": "Get student detail",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "patch": {
                "tags": [
                    "Students"
                ],
                "summary": "Update student enrollment and contact fields",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateStudentRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/students/{id}/attendance-summary": {
            "get": {
                "tags": [
                    "Attendance"
                ],
                "summary": "Per-subject attendance summary of a student",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "semester",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/students/{id}/class-rank": {
            "get": {
                "tags": [
                    "Students"
                ],
                "summary": "Get the student's rank within its section",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/students/{id}/eligibility": {
            "get": {
                "tags": [
                    "Students"
                ],
                "summary": "Evaluate a student against a stipend criteria",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "criteria",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/students/{id}/promote-to-alumni": {
            "post": {
                "tags": [
                    "Students"
                ],
                "summary": "Graduate a student into an alumni profile",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/PromoteStudentRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/students/{id}/results": {
            "post": {
                "tags": [
                    "Students"
                ],
                "summary": "Record or replace a semester result",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SemesterResult"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/students/{id}/semester-attendance": {
            "post": {
                "tags": [
                    "Students"
                ],
                "summary": "Record or replace a semester attendance summary",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SemesterAttendance"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/students/{id}/semester-attendance/rollup": {
            "post": {
                "tags": [
                    "Students"
                ],
                "summary": "Rebuild the current semester attendance from approved records",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/users/me": {
            "get": {
                "tags": [
                    "Users"
                ],
                "summary": "Get the caller's user record",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/users/{id}": {
            "get": {
                "tags": [
                    "Users"
                ],
                "summary": "Get a user by ID",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        }
    },
    "definitions": {
        "SubmitAdmissionRequest": {
            "type": "object",
            "required": [
                "fullNameEnglish",
                "sscRoll",
                "desiredDepartmentId",
                "session",
                "shift"
            ],
            "properties": {
                "fullNameEnglish": {
                    "type": "string"
                },
                "fullNameBangla": {
                    "type": "string"
                },
                "fatherName": {
                    "type": "string"
                },
                "motherName": {
                    "type": "string"
                },
                "dateOfBirth": {
                    "type": "string",
                    "format": "date"
                },
                "mobileStudent": {
                    "type": "string"
                },
                "guardianMobile": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "presentAddress": {
                    "type": "object",
                    "properties": {
                        "division": {
                            "type": "string"
                        },
                        "district": {
                            "type": "string"
                        },
                        "upazila": {
                            "type": "string"
                        },
                        "postOffice": {
                            "type": "string"
                        },
                        "village": {
                            "type": "string"
                        }
                    }
                },
                "permanentAddress": {
                    "type": "object",
                    "properties": {
                        "division": {
                            "type": "string"
                        },
                        "district": {
                            "type": "string"
                        },
                        "upazila": {
                            "type": "string"
                        },
                        "postOffice": {
                            "type": "string"
                        },
                        "village": {
                            "type": "string"
                        }
                    }
                },
                "sscRoll": {
                    "type": "string"
                },
                "sscRegistration": {
                    "type": "string"
                },
                "sscBoard": {
                    "type": "string"
                },
                "sscPassingYear": {
                    "type": "integer"
                },
                "sscGpa": {
                    "type": "number"
                },
                "desiredDepartmentId": {
                    "type": "string",
                    "format": "uuid"
                },
                "session": {
                    "type": "string",
                    "example": "2024-25"
                },
                "shift": {
                    "type": "string",
                    "enum": [
                        "Morning",
                        "Day",
                        "Evening"
                    ]
                }
            }
        },
        "SaveDraftRequest": {
            "type": "object",
            "required": [
                "data"
            ],
            "properties": {
                "step": {
                    "type": "integer"
                },
                "data": {
                    "type": "object"
                }
            }
        },
        "ApproveAdmissionRequest": {
            "type": "object",
            "required": [
                "currentRegistrationNumber"
            ],
            "properties": {
                "currentRegistrationNumber": {
                    "type": "string"
                },
                "departmentId": {
                    "type": "string",
                    "format": "uuid"
                },
                "semester": {
                    "type": "integer"
                },
                "currentGroup": {
                    "type": "string"
                },
                "enrollmentDate": {
                    "type": "string",
                    "format": "date"
                },
                "notes": {
                    "type": "string"
                }
            }
        },
        "ReviewNotes": {
            "type": "object",
            "properties": {
                "notes": {
                    "type": "string"
                }
            }
        },
        "UpdateStudentRequest": {
            "type": "object",
            "properties": {
                "semester": {
                    "type": "integer"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "active",
                        "inactive",
                        "graduated",
                        "discontinued"
                    ]
                },
                "shift": {
                    "type": "string"
                },
                "currentGroup": {
                    "type": "string"
                },
                "discontinuedReason": {
                    "type": "string"
                },
                "lastSemester": {
                    "type": "integer"
                },
                "email": {
                    "type": "string"
                },
                "mobileStudent": {
                    "type": "string"
                },
                "guardianMobile": {
                    "type": "string"
                },
                "presentAddress": {
                    "type": "object",
                    "properties": {
                        "division": {
                            "type": "string"
                        },
                        "district": {
                            "type": "string"
                        },
                        "upazila": {
                            "type": "string"
                        },
                        "postOffice": {
                            "type": "string"
                        },
                        "village": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "SemesterResult": {
            "type": "object",
            "required": [
                "semester",
                "year",
                "resultType"
            ],
            "properties": {
                "semester": {
                    "type": "integer"
                },
                "year": {
                    "type": "integer"
                },
                "resultType": {
                    "type": "string",
                    "enum": [
                        "gpa",
                        "failed",
                        "referred"
                    ]
                },
                "gpa": {
                    "type": "number"
                },
                "cgpa": {
                    "type": "number"
                },
                "referredSubjects": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "SemesterAttendance": {
            "type": "object",
            "required": [
                "semester",
                "year"
            ],
            "properties": {
                "semester": {
                    "type": "integer"
                },
                "year": {
                    "type": "integer"
                },
                "subjects": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "code": {
                                "type": "string"
                            },
                            "name": {
                                "type": "string"
                            },
                            "present": {
                                "type": "integer"
                            },
                            "total": {
                                "type": "integer"
                            }
                        }
                    }
                },
                "averagePercentage": {
                    "type": "number"
                }
            }
        },
        "PromoteStudentRequest": {
            "type": "object",
            "required": [
                "alumniType",
                "graduationYear",
                "supportCategory"
            ],
            "properties": {
                "alumniType": {
                    "type": "string",
                    "enum": [
                        "recent",
                        "established"
                    ]
                },
                "graduationYear": {
                    "type": "integer"
                },
                "supportCategory": {
                    "type": "string",
                    "enum": [
                        "no_support_needed",
                        "need_extra_support",
                        "low_income",
                        "job_seeking",
                        "higher_education_support"
                    ]
                },
                "notes": {
                    "type": "string"
                }
            }
        },
        "UpdateAlumniRequest": {
            "type": "object",
            "properties": {
                "alumniType": {
                    "type": "string"
                },
                "bio": {
                    "type": "string"
                },
                "currentEmail": {
                    "type": "string"
                },
                "currentPhone": {
                    "type": "string"
                },
                "linkedinUrl": {
                    "type": "string"
                }
            }
        },
        "ChangeSupportRequest": {
            "type": "object",
            "required": [
                "category"
            ],
            "properties": {
                "category": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                }
            }
        },
        "CreateRoutineRequest": {
            "type": "object",
            "required": [
                "departmentId",
                "session",
                "semester",
                "shift",
                "subjectCode",
                "subjectName",
                "startTime",
                "endTime"
            ],
            "properties": {
                "departmentId": {
                    "type": "string",
                    "format": "uuid"
                },
                "session": {
                    "type": "string"
                },
                "semester": {
                    "type": "integer"
                },
                "shift": {
                    "type": "string"
                },
                "subjectCode": {
                    "type": "string"
                },
                "subjectName": {
                    "type": "string"
                },
                "teacherId": {
                    "type": "string",
                    "format": "uuid"
                },
                "dayOfWeek": {
                    "type": "integer"
                },
                "startTime": {
                    "type": "string",
                    "example": "09:00"
                },
                "endTime": {
                    "type": "string",
                    "example": "10:30"
                }
            }
        },
        "RecordAttendanceRequest": {
            "type": "object",
            "required": [
                "records"
            ],
            "properties": {
                "classRoutineId": {
                    "type": "string",
                    "format": "uuid"
                },
                "date": {
                    "type": "string",
                    "format": "date"
                },
                "draft": {
                    "type": "boolean"
                },
                "records": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "studentId": {
                                "type": "string",
                                "format": "uuid"
                            },
                            "subjectCode": {
                                "type": "string"
                            },
                            "subjectName": {
                                "type": "string"
                            },
                            "semester": {
                                "type": "integer"
                            },
                            "classRoutineId": {
                                "type": "string",
                                "format": "uuid"
                            },
                            "date": {
                                "type": "string",
                                "format": "date"
                            },
                            "isPresent": {
                                "type": "boolean"
                            }
                        }
                    }
                }
            }
        },
        "AttendanceIDs": {
            "type": "object",
            "required": [
                "attendance_ids"
            ],
            "properties": {
                "attendance_ids": {
                    "type": "array",
                    "items": {
                        "type": "string",
                        "format": "uuid"
                    }
                }
            }
        },
        "AttendanceDecisionRequest": {
            "type": "object",
            "required": [
                "action",
                "attendance_ids"
            ],
            "properties": {
                "action": {
                    "type": "string",
                    "enum": [
                        "approve",
                        "reject"
                    ]
                },
                "attendance_ids": {
                    "type": "array",
                    "items": {
                        "type": "string",
                        "format": "uuid"
                    }
                },
                "rejection_reason": {
                    "type": "string"
                }
            }
        },
        "CreateMarksRequest": {
            "type": "object",
            "required": [
                "studentId",
                "subjectCode",
                "semester",
                "examType",
                "totalMarks"
            ],
            "properties": {
                "studentId": {
                    "type": "string",
                    "format": "uuid"
                },
                "subjectCode": {
                    "type": "string"
                },
                "subjectName": {
                    "type": "string"
                },
                "semester": {
                    "type": "integer"
                },
                "examType": {
                    "type": "string"
                },
                "marksObtained": {
                    "type": "number"
                },
                "totalMarks": {
                    "type": "number"
                }
            }
        },
        "CriteriaRequest": {
            "type": "object",
            "required": [
                "name",
                "passRequirement"
            ],
            "properties": {
                "name": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "departmentId": {
                    "type": "string",
                    "format": "uuid"
                },
                "semester": {
                    "type": "integer"
                },
                "shift": {
                    "type": "string"
                },
                "session": {
                    "type": "string"
                },
                "minAttendance": {
                    "type": "number"
                },
                "minGpa": {
                    "type": "number"
                },
                "passRequirement": {
                    "type": "string",
                    "enum": [
                        "all_pass",
                        "1_referred",
                        "2_referred",
                        "any"
                    ]
                },
                "isActive": {
                    "type": "boolean"
                }
            }
        },
        "SaveEligibilityRequest": {
            "type": "object",
            "required": [
                "criteriaId",
                "studentIds"
            ],
            "properties": {
                "criteriaId": {
                    "type": "string",
                    "format": "uuid"
                },
                "studentIds": {
                    "type": "array",
                    "items": {
                        "type": "string",
                        "format": "uuid"
                    }
                }
            }
        },
        "CreateCorrectionRequest": {
            "type": "object",
            "required": [
                "studentId",
                "fieldName",
                "requestedValue",
                "reason"
            ],
            "properties": {
                "studentId": {
                    "type": "string",
                    "format": "uuid"
                },
                "fieldName": {
                    "type": "string"
                },
                "requestedValue": {
                    "type": "string"
                },
                "reason": {
                    "type": "string"
                },
                "supportingDocuments": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "DepartmentRequest": {
            "type": "object",
            "required": [
                "code",
                "name"
            ],
            "properties": {
                "code": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "head": {
                    "type": "string"
                },
                "establishedYear": {
                    "type": "integer"
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
            }
        }
    },
    "x-root-paths": {
        "/health": {
            "get": {
                "tags": [
                    "System"
                ],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "tags": [
                    "System"
                ],
                "summary": "Readiness probe pinging Postgres and Redis",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "503": {
                        "description": "Degraded"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": [
                    "System"
                ],
                "summary": "Prometheus metrics",
                "produces": [
                    "text/plain"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
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
