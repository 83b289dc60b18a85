// Package testutil provides test fixtures shared by the package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// PetStoreOAS3 is a small OAS 3.0 document. GET /pets/{id} deliberately
// has no operationId.
const PetStoreOAS3 = `openapi: 3.0.3
info:
  title: Pet Store
  version: 1.0.0
  description: Sample pet store
servers:
  - url: https://{region}.petstore.example.com/v1
    variables:
      region:
        default: eu
security:
  - api_key: []
paths:
  /pets:
    get:
      operationId: listPets
      summary: List all pets
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
      responses:
        "200":
          description: A list of pets
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
    post:
      operationId: createPet
      summary: Create a pet
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Pet'
      responses:
        "201":
          description: Created
  /pets/{id}:
    parameters:
      - name: id
        in: path
        required: true
        schema:
          type: integer
    get:
      summary: Get a pet by id
      responses:
        "200":
          description: The pet
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
        default:
          description: Error
components:
  securitySchemes:
    api_key:
      type: apiKey
      in: header
      name: X-API-Key
  schemas:
    Pet:
      type: object
      required:
        - name
      properties:
        id:
          type: integer
          format: int64
        name:
          type: string
        status:
          type: string
          enum: [available, pending, sold]
        category:
          $ref: '#/components/schemas/Category'
    Category:
      type: object
      properties:
        id:
          type: integer
        name:
          type: string
`

// PetStoreOAS2 is the Swagger 2.0 counterpart of PetStoreOAS3.
const PetStoreOAS2 = `{
  "swagger": "2.0",
  "info": {"title": "Pet Store", "version": "1.0.0"},
  "host": "petstore.example.com",
  "basePath": "/v1",
  "schemes": ["https"],
  "securityDefinitions": {
    "basicAuth": {"type": "basic"}
  },
  "paths": {
    "/pets/{id}": {
      "get": {
        "parameters": [
          {"name": "id", "in": "path", "required": true, "type": "integer"},
          {"name": "X-Trace", "in": "header", "type": "string"}
        ],
        "responses": {
          "200": {"description": "The pet", "schema": {"$ref": "#/definitions/Pet"}}
        }
      },
      "put": {
        "operationId": "updatePet",
        "parameters": [
          {"name": "id", "in": "path", "required": true, "type": "integer"},
          {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Pet"}}
        ],
        "responses": {"200": {"description": "ok"}}
      }
    },
    "/pets/{id}/photo": {
      "post": {
        "operationId": "uploadPhoto",
        "consumes": ["multipart/form-data"],
        "parameters": [
          {"name": "id", "in": "path", "required": true, "type": "integer"},
          {"name": "file", "in": "formData", "required": true, "type": "file"},
          {"name": "caption", "in": "formData", "type": "string"}
        ],
        "responses": {"200": {"description": "ok"}}
      }
    }
  },
  "definitions": {
    "Pet": {
      "type": "object",
      "required": ["name"],
      "properties": {
        "id": {"type": "integer"},
        "name": {"type": "string"}
      }
    }
  }
}`

// RecursiveOAS3 has a structurally self-referencing schema.
const RecursiveOAS3 = `openapi: 3.1.0
info:
  title: Tree
  version: "1"
paths:
  /nodes:
    get:
      operationId: listNodes
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Node'
components:
  schemas:
    Node:
      type: object
      required: [value]
      properties:
        value:
          type: string
        next:
          $ref: '#/components/schemas/Node'
        children:
          type: array
          items:
            $ref: '#/components/schemas/Node'
`

// CyclicRefOAS3 has a $ref chain that never reaches a schema.
const CyclicRefOAS3 = `openapi: 3.0.0
info:
  title: Broken
  version: "1"
paths: {}
components:
  schemas:
    A:
      $ref: '#/components/schemas/B'
    B:
      $ref: '#/components/schemas/A'
`

// DanglingRefOAS3 references a schema that does not exist.
const DanglingRefOAS3 = `openapi: 3.0.0
info:
  title: Broken
  version: "1"
paths:
  /things:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Missing'
`

// DuplicateIDsOAS3 declares the same operationId twice and an unsupported key.
const DuplicateIDsOAS3 = `openapi: 3.0.0
info:
  title: Items
  version: "1"
paths:
  /items/{id}:
    x-internal: true
    get:
      operationId: getItem
      responses:
        "200":
          description: ok
  /legacy/items/{id}:
    get:
      operationId: getItem
      responses:
        "200":
          description: ok
`

// EmptyPathsOAS3 declares no operations at all.
const EmptyPathsOAS3 = `openapi: 3.0.0
info:
  title: Nothing Here
  version: "0.1"
paths: {}
`

// WriteTemp writes content to name inside a fresh temporary directory and
// returns the file path.
func WriteTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}
