package metrics

type Counter interface {
	Inc()

	Add(delta float64)
}

type Factory interface {
	CreateCounter(name string, description string) (Counter, error)

	Start() error

	Stop() error
}
