package dto

// CreateEmployeeRequest alta de empleado.
type CreateEmployeeRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// EmployeeResponse empleado de la tienda.
type EmployeeResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
}
