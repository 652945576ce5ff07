package cpu

// Machine is the port capability the dispatcher calls for IN and OUT.
// The host supplies the concrete device behaviour.
type Machine interface {
	Input(port uint8) uint8
	Output(port uint8, value uint8)
}

// NullMachine reads zero from every port and discards every write.
type NullMachine struct{}

func (NullMachine) Input(port uint8) uint8         { return 0 }
func (NullMachine) Output(port uint8, value uint8) {}
