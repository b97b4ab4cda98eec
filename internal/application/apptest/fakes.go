// Package apptest provee dobles de prueba en memoria para los casos de uso:
// un Store con los datos de un tenant (o varios) y un TxRunner que emula la
// semántica de la base: serialización por mutex (equivalente grueso del
// bloqueo de fila) y commit-o-rollback atómico por snapshot.
package apptest

import (
	"context"
	"sync"

	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// Store guarda el estado compartido de los fakes. Transactions y
// TransactionItems van llaveados por "ownerID|transactionID": la identidad
// de una venta es por tenant.
type Store struct {
	mu               sync.Mutex
	Products         map[string]*entity.Product
	Customers        map[string]*entity.Customer
	Transactions     map[string]*entity.SalesTransaction
	TransactionItems map[string][]*entity.SalesTransactionItem
	Shipments        map[string]*entity.Shipment
	ShipmentItems    map[string][]*entity.ShipmentItem
	Employees        map[string]*entity.Employee
	Suppliers        map[string]*entity.Supplier
}

// NewStore construye un Store vacío.
func NewStore() *Store {
	return &Store{
		Products:         make(map[string]*entity.Product),
		Customers:        make(map[string]*entity.Customer),
		Transactions:     make(map[string]*entity.SalesTransaction),
		TransactionItems: make(map[string][]*entity.SalesTransactionItem),
		Shipments:        make(map[string]*entity.Shipment),
		ShipmentItems:    make(map[string][]*entity.ShipmentItem),
		Employees:        make(map[string]*entity.Employee),
		Suppliers:        make(map[string]*entity.Supplier),
	}
}

// Seed helpers.

func (s *Store) AddProduct(p entity.Product) { s.Products[p.ID] = &p }
func (s *Store) AddEmployee(e entity.Employee) { s.Employees[e.ID] = &e }
func (s *Store) AddSupplier(sp entity.Supplier) { s.Suppliers[sp.ID] = &sp }
func (s *Store) AddCustomer(c entity.Customer) { s.Customers[c.ID] = &c }

// StockOf devuelve el stock actual de un producto (0 si no existe).
func (s *Store) StockOf(productID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.Products[productID]; ok {
		return p.Stock
	}
	return 0
}

// snapshot copia profunda del estado (las entidades se copian por valor).
func (s *Store) snapshot() *Store {
	cp := NewStore()
	for k, v := range s.Products {
		p := *v
		cp.Products[k] = &p
	}
	for k, v := range s.Customers {
		c := *v
		cp.Customers[k] = &c
	}
	for k, v := range s.Transactions {
		t := *v
		cp.Transactions[k] = &t
	}
	for k, items := range s.TransactionItems {
		cp.TransactionItems[k] = append([]*entity.SalesTransactionItem(nil), items...)
	}
	for k, v := range s.Shipments {
		sh := *v
		cp.Shipments[k] = &sh
	}
	for k, items := range s.ShipmentItems {
		cp.ShipmentItems[k] = append([]*entity.ShipmentItem(nil), items...)
	}
	for k, v := range s.Employees {
		e := *v
		cp.Employees[k] = &e
	}
	for k, v := range s.Suppliers {
		sp := *v
		cp.Suppliers[k] = &sp
	}
	return cp
}

// restore repone el estado desde un snapshot (rollback).
func (s *Store) restore(snap *Store) {
	s.Products = snap.Products
	s.Customers = snap.Customers
	s.Transactions = snap.Transactions
	s.TransactionItems = snap.TransactionItems
	s.Shipments = snap.Shipments
	s.ShipmentItems = snap.ShipmentItems
	s.Employees = snap.Employees
	s.Suppliers = snap.Suppliers
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner: serializa las unidades de trabajo con el mutex del Store y
// restaura el snapshot ante error (rollback). Es el equivalente en memoria
// del postgres.TxRunner.
// ──────────────────────────────────────────────────────────────────────────────

// TxRunner fake para sales.TxRunner y shipments.TxRunner.
type TxRunner struct {
	S *Store
	// FailOn permite inyectar un fallo de infraestructura a mitad de la
	// unidad de trabajo (nil = nunca falla).
	FailOn func() error
}

// RunSales emula una transacción de venta.
func (r *TxRunner) RunSales(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	txRepo repository.SalesTransactionRepository,
) error) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	snap := r.S.snapshot()
	err := fn(&ProductRepo{s: r.S}, &CustomerRepo{s: r.S}, &TransactionRepo{s: r.S})
	if err == nil && r.FailOn != nil {
		err = r.FailOn()
	}
	if err != nil {
		r.S.restore(snap)
		return err
	}
	return nil
}

// RunShipment emula una transacción de recepción/eliminación de mercancía.
func (r *TxRunner) RunShipment(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	shipmentRepo repository.ShipmentRepository,
) error) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	snap := r.S.snapshot()
	err := fn(&ProductRepo{s: r.S}, &ShipmentRepo{s: r.S})
	if err == nil && r.FailOn != nil {
		err = r.FailOn()
	}
	if err != nil {
		r.S.restore(snap)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios fake. En modo external (fuera de una transacción) cada
// operación toma el mutex; dentro del TxRunner el mutex ya está tomado.
// ──────────────────────────────────────────────────────────────────────────────

// ProductRepo fake de repository.ProductRepository.
type ProductRepo struct {
	s        *Store
	external bool
}

// NewProductRepo devuelve el repo en modo external (lectura fuera de tx).
func NewProductRepo(s *Store) *ProductRepo { return &ProductRepo{s: s, external: true} }

func (r *ProductRepo) lock() func() {
	if !r.external {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *ProductRepo) Create(p *entity.Product) error {
	defer r.lock()()
	cp := *p
	r.s.Products[p.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByOwnerAndID(ownerID, id string) (*entity.Product, error) {
	defer r.lock()()
	p, ok := r.s.Products[id]
	if !ok || p.OwnerID != ownerID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// GetForUpdate en el fake equivale a GetByOwnerAndID: el TxRunner ya
// serializa toda la unidad de trabajo.
func (r *ProductRepo) GetForUpdate(ownerID, id string) (*entity.Product, error) {
	return r.GetByOwnerAndID(ownerID, id)
}

func (r *ProductRepo) ListByOwnerAndIDs(ownerID string, ids []string) ([]*entity.Product, error) {
	defer r.lock()()
	var out []*entity.Product
	for _, id := range ids {
		if p, ok := r.s.Products[id]; ok && p.OwnerID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *ProductRepo) ListByOwner(ownerID string, limit, offset int) ([]*entity.Product, error) {
	defer r.lock()()
	var out []*entity.Product
	for _, p := range r.s.Products {
		if p.OwnerID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *ProductRepo) Update(p *entity.Product) error {
	defer r.lock()()
	cp := *p
	r.s.Products[p.ID] = &cp
	return nil
}

func (r *ProductRepo) UpdateStock(ownerID, id string, stock int64) error {
	defer r.lock()()
	p, ok := r.s.Products[id]
	if !ok || p.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	p.Stock = stock
	return nil
}

func (r *ProductRepo) Delete(ownerID, id string) error {
	defer r.lock()()
	if p, ok := r.s.Products[id]; ok && p.OwnerID == ownerID {
		delete(r.s.Products, id)
	}
	return nil
}

// CustomerRepo fake de repository.CustomerRepository.
type CustomerRepo struct {
	s        *Store
	external bool
}

// NewCustomerRepo devuelve el repo en modo external.
func NewCustomerRepo(s *Store) *CustomerRepo { return &CustomerRepo{s: s, external: true} }

func (r *CustomerRepo) lock() func() {
	if !r.external {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *CustomerRepo) Create(c *entity.Customer) error {
	defer r.lock()()
	for _, existing := range r.s.Customers {
		if existing.OwnerID == c.OwnerID && existing.Phone == c.Phone {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.s.Customers[c.ID] = &cp
	return nil
}

func (r *CustomerRepo) GetByOwnerAndID(ownerID, id string) (*entity.Customer, error) {
	defer r.lock()()
	c, ok := r.s.Customers[id]
	if !ok || c.OwnerID != ownerID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CustomerRepo) GetByOwnerAndPhone(ownerID, phone string) (*entity.Customer, error) {
	defer r.lock()()
	for _, c := range r.s.Customers {
		if c.OwnerID == ownerID && c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) ListByOwner(ownerID string, limit, offset int) ([]*entity.Customer, error) {
	defer r.lock()()
	var out []*entity.Customer
	for _, c := range r.s.Customers {
		if c.OwnerID == ownerID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *CustomerRepo) Update(c *entity.Customer) error {
	defer r.lock()()
	cp := *c
	r.s.Customers[c.ID] = &cp
	return nil
}

// TransactionRepo fake de repository.SalesTransactionRepository.
type TransactionRepo struct {
	s        *Store
	external bool
}

// NewTransactionRepo devuelve el repo en modo external.
func NewTransactionRepo(s *Store) *TransactionRepo { return &TransactionRepo{s: s, external: true} }

func (r *TransactionRepo) lock() func() {
	if !r.external {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

// La venta se identifica por (owner_id, id): el mismo ID en tenants
// distintos son ventas independientes.
func (r *TransactionRepo) Create(tx *entity.SalesTransaction) error {
	defer r.lock()()
	key := tx.OwnerID + "|" + tx.ID
	if _, exists := r.s.Transactions[key]; exists {
		return domain.ErrConflict
	}
	cp := *tx
	r.s.Transactions[key] = &cp
	return nil
}

func (r *TransactionRepo) CreateItem(item *entity.SalesTransactionItem) error {
	defer r.lock()()
	cp := *item
	key := item.OwnerID + "|" + item.TransactionID
	r.s.TransactionItems[key] = append(r.s.TransactionItems[key], &cp)
	return nil
}

func (r *TransactionRepo) GetByOwnerAndID(ownerID, id string) (*entity.SalesTransaction, error) {
	defer r.lock()()
	tx, ok := r.s.Transactions[ownerID+"|"+id]
	if !ok {
		return nil, nil
	}
	cp := *tx
	return &cp, nil
}

func (r *TransactionRepo) GetItemsByTransactionID(ownerID, transactionID string) ([]*entity.SalesTransactionItem, error) {
	defer r.lock()()
	return append([]*entity.SalesTransactionItem(nil), r.s.TransactionItems[ownerID+"|"+transactionID]...), nil
}

func (r *TransactionRepo) ListByOwner(ownerID string, limit, offset int) ([]*entity.SalesTransaction, error) {
	defer r.lock()()
	var out []*entity.SalesTransaction
	for _, tx := range r.s.Transactions {
		if tx.OwnerID == ownerID {
			cp := *tx
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ShipmentRepo fake de repository.ShipmentRepository.
type ShipmentRepo struct {
	s        *Store
	external bool
}

// NewShipmentRepo devuelve el repo en modo external.
func NewShipmentRepo(s *Store) *ShipmentRepo { return &ShipmentRepo{s: s, external: true} }

func (r *ShipmentRepo) lock() func() {
	if !r.external {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *ShipmentRepo) Create(sh *entity.Shipment) error {
	defer r.lock()()
	if _, exists := r.s.Shipments[sh.ID]; exists {
		return domain.ErrDuplicate
	}
	cp := *sh
	r.s.Shipments[sh.ID] = &cp
	return nil
}

func (r *ShipmentRepo) CreateItem(item *entity.ShipmentItem) error {
	defer r.lock()()
	cp := *item
	r.s.ShipmentItems[item.ShipmentID] = append(r.s.ShipmentItems[item.ShipmentID], &cp)
	return nil
}

func (r *ShipmentRepo) GetByOwnerAndID(ownerID, id string) (*entity.Shipment, error) {
	defer r.lock()()
	sh, ok := r.s.Shipments[id]
	if !ok || sh.OwnerID != ownerID {
		return nil, nil
	}
	cp := *sh
	return &cp, nil
}

func (r *ShipmentRepo) GetItemsByShipmentID(shipmentID string) ([]*entity.ShipmentItem, error) {
	defer r.lock()()
	return append([]*entity.ShipmentItem(nil), r.s.ShipmentItems[shipmentID]...), nil
}

func (r *ShipmentRepo) ListByOwner(ownerID string, limit, offset int) ([]*entity.Shipment, error) {
	defer r.lock()()
	var out []*entity.Shipment
	for _, sh := range r.s.Shipments {
		if sh.OwnerID == ownerID {
			cp := *sh
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *ShipmentRepo) DeleteItemsByShipmentID(shipmentID string) error {
	defer r.lock()()
	delete(r.s.ShipmentItems, shipmentID)
	return nil
}

func (r *ShipmentRepo) Delete(ownerID, id string) error {
	defer r.lock()()
	if sh, ok := r.s.Shipments[id]; ok && sh.OwnerID == ownerID {
		delete(r.s.Shipments, id)
	}
	return nil
}

// EmployeeRepo fake de repository.EmployeeRepository (directorio).
type EmployeeRepo struct{ s *Store }

// NewEmployeeRepo construye el fake.
func NewEmployeeRepo(s *Store) *EmployeeRepo { return &EmployeeRepo{s: s} }

func (r *EmployeeRepo) Create(e *entity.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *e
	r.s.Employees[e.ID] = &cp
	return nil
}

func (r *EmployeeRepo) GetByOwnerAndID(ownerID, id string) (*entity.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.Employees[id]
	if !ok || e.OwnerID != ownerID {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *EmployeeRepo) Exists(ownerID, id string) (bool, error) {
	e, err := r.GetByOwnerAndID(ownerID, id)
	return e != nil, err
}

func (r *EmployeeRepo) ListByOwner(ownerID string, limit, offset int) ([]*entity.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Employee
	for _, e := range r.s.Employees {
		if e.OwnerID == ownerID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *EmployeeRepo) Update(e *entity.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *e
	r.s.Employees[e.ID] = &cp
	return nil
}

// SupplierRepo fake de repository.SupplierRepository (directorio).
type SupplierRepo struct{ s *Store }

// NewSupplierRepo construye el fake.
func NewSupplierRepo(s *Store) *SupplierRepo { return &SupplierRepo{s: s} }

func (r *SupplierRepo) Create(sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *sp
	r.s.Suppliers[sp.ID] = &cp
	return nil
}

func (r *SupplierRepo) GetByOwnerAndID(ownerID, id string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sp, ok := r.s.Suppliers[id]
	if !ok || sp.OwnerID != ownerID {
		return nil, nil
	}
	cp := *sp
	return &cp, nil
}

func (r *SupplierRepo) Exists(ownerID, id string) (bool, error) {
	sp, err := r.GetByOwnerAndID(ownerID, id)
	return sp != nil, err
}

func (r *SupplierRepo) ListByOwner(ownerID string, limit, offset int) ([]*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Supplier
	for _, sp := range r.s.Suppliers {
		if sp.OwnerID == ownerID {
			cp := *sp
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *SupplierRepo) Update(sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *sp
	r.s.Suppliers[sp.ID] = &cp
	return nil
}

func (r *SupplierRepo) Delete(ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sp, ok := r.s.Suppliers[id]; ok && sp.OwnerID == ownerID {
		delete(r.s.Suppliers, id)
	}
	return nil
}

// Verificación de interfaces en compile time.
var (
	_ repository.ProductRepository          = (*ProductRepo)(nil)
	_ repository.CustomerRepository         = (*CustomerRepo)(nil)
	_ repository.SalesTransactionRepository = (*TransactionRepo)(nil)
	_ repository.ShipmentRepository         = (*ShipmentRepo)(nil)
	_ repository.EmployeeRepository         = (*EmployeeRepo)(nil)
	_ repository.SupplierRepository         = (*SupplierRepo)(nil)
)
