package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-todo/middleware"
	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/store"
)

// TodoHandler xử lý CRUD todo cho người dùng đã đăng nhập.
// Mọi thao tác đều lấy user từ session và chỉ đụng tới todo của user đó.
type TodoHandler struct {
	Todos store.TodoStore
}

type createTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateTodoRequest struct {
	ID string `json:"id"`
	models.TodoUpdate
}

// List lấy tất cả todo của người dùng hiện tại
//
//	@Summary	List todos of the current user
//	@Tags		todos
//	@Produce	json
//	@Success	200	{array}		models.Todo
//	@Failure	401	{object}	map[string]interface{}
//	@Router		/ [get]
func (h *TodoHandler) List(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	todos, err := h.Todos.ListByOwner(c.Context(), user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching todos",
			"error":   err.Error(),
		})
	}

	return c.Status(200).JSON(todos)
}

// Create tạo một todo mới thuộc về người dùng hiện tại
//
//	@Summary	Create a new todo
//	@Tags		todos
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	map[string]interface{}
//	@Failure	400	{object}	map[string]interface{}
//	@Router		/todo [post]
func (h *TodoHandler) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	req := new(createTodoRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": err.Error()})
	}

	todo, err := h.Todos.Create(c.Context(), user.ID, req.Title, req.Description)
	if err != nil {
		if errors.Is(err, store.ErrValidation) {
			return c.Status(400).JSON(fiber.Map{
				"message":      "title and description are required",
				"isSuccessful": false,
			})
		}
		return c.Status(500).JSON(fiber.Map{
			"message": "Internal server error",
			"error":   err.Error(),
		})
	}

	return c.Status(201).JSON(fiber.Map{
		"message":      "Todo has been added",
		"isSuccessful": true,
		"data":         todo,
	})
}

// GetOne lấy một todo theo id, chỉ khi nó thuộc về người dùng hiện tại.
// Todo của người khác và todo không tồn tại trả về cùng một 404
// để không lộ việc id có tồn tại hay không.
//
//	@Summary	Get one todo by id
//	@Tags		todos
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Failure	404	{object}	map[string]interface{}
//	@Router		/todo/{id} [get]
func (h *TodoHandler) GetOne(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id := c.Params("id")

	todo, err := h.Todos.FindByIDAndOwner(c.Context(), id, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(404).JSON(fiber.Map{
			"message":      "Todo item not found",
			"isSuccessful": false,
		})
	} else if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching data",
			"error":   err.Error(),
		})
	}

	return c.Status(200).JSON(fiber.Map{
		"message":      "Successfully retrieved",
		"isSuccessful": true,
		"data":         todo,
	})
}

// Update cập nhật một phần todo (id nằm trong body).
// Trường vắng mặt trong JSON sẽ được giữ nguyên.
//
//	@Summary	Update a todo
//	@Tags		todos
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Failure	404	{object}	map[string]interface{}
//	@Router		/todo [put]
func (h *TodoHandler) Update(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	req := new(updateTodoRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": err.Error()})
	}

	count, err := h.Todos.Update(c.Context(), req.ID, user.ID, req.TodoUpdate)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating todo item",
			"error":   err.Error(),
		})
	}

	if count == 0 {
		return c.Status(404).JSON(fiber.Map{
			"message":      "Todo item not found or you dont have permission to update",
			"isSuccessful": false,
		})
	}

	return c.Status(200).JSON(fiber.Map{
		"isSuccessful": true,
		"message":      "Successfully updated the todo item",
	})
}

// Delete xóa một todo của người dùng hiện tại
//
//	@Summary	Delete a todo
//	@Tags		todos
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Failure	404	{object}	map[string]interface{}
//	@Router		/todo/{id} [delete]
func (h *TodoHandler) Delete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id := c.Params("id")

	count, err := h.Todos.Delete(c.Context(), id, user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting todo item",
			"error":   err.Error(),
		})
	}

	if count == 0 {
		return c.Status(404).JSON(fiber.Map{
			"message":      "todo item not found or you dont have permission",
			"isSuccessful": false,
		})
	}

	return c.Status(200).JSON(fiber.Map{"message": "deleted successfully"})
}
