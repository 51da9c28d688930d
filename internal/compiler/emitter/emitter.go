package emitter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/arnavsurve/stups/internal/compiler/lib"
)

const (
	indent = "\t"

	outputTarget = "getstatic java/lang/System/out Ljava/io/PrintStream;"
	printMethod  = "invokevirtual java/io/PrintStream/println"
)

// Print descriptors for the two value types.
const (
	DescriptorInt  = "(I)V"
	DescriptorBool = "(Z)V"
)

// ErrFinished is returned when the boilerplate is requested a second time.
var ErrFinished = errors.New("emitter: boilerplate already written")

// Emitter is an append-only Jasmin listing. Body instructions are appended
// in emission order; the class/method header and the method footer are
// added once by Finish, when the totals they carry are known.
type Emitter struct {
	body     strings.Builder
	header   string
	footer   string
	finished bool
}

func NewEmitter() *Emitter {
	return &Emitter{}
}

// --- Emit Helpers ---

func (e *Emitter) line(text string) {
	e.body.WriteString(indent + text + "\n")
}

// Label defines a jump target.
func (e *Emitter) Label(name string) {
	e.body.WriteString(name + ":\n")
}

// Instr appends an instruction with zero or more operands.
func (e *Emitter) Instr(op string, operands ...string) {
	if len(operands) == 0 {
		e.line(op)
		return
	}
	e.line(op + " " + strings.Join(operands, " "))
}

// Branch appends a conditional branch such as ifeq or if_icmplt.
func (e *Emitter) Branch(op, label string) {
	e.Instr(op, label)
}

func (e *Emitter) Goto(label string) {
	e.Instr("goto", label)
}

// PushInt uses the shortest encoding that holds n.
func (e *Emitter) PushInt(n int32) {
	switch {
	case n >= 0 && n <= 5:
		e.line("iconst_" + strconv.Itoa(int(n)))
	case lib.FitsByte(n):
		e.Instr("bipush", strconv.Itoa(int(n)))
	case lib.FitsShort(n):
		e.Instr("sipush", strconv.Itoa(int(n)))
	default:
		e.Instr("ldc", strconv.Itoa(int(n)))
	}
}

// PushBool pushes true as 1 and false as 0.
func (e *Emitter) PushBool(b bool) {
	if b {
		e.PushInt(1)
		return
	}
	e.PushInt(0)
}

func (e *Emitter) Load(slot int) {
	e.slotInstr("iload", slot)
}

func (e *Emitter) Store(slot int) {
	e.slotInstr("istore", slot)
}

// slotInstr uses the operand-free form for slots 0-3, which is all the
// JVM provides.
func (e *Emitter) slotInstr(op string, slot int) {
	if slot <= 3 {
		e.line(op + "_" + strconv.Itoa(slot))
		return
	}
	e.Instr(op, strconv.Itoa(slot))
}

// OutputTarget pushes System.out.
func (e *Emitter) OutputTarget() {
	e.line(outputTarget)
}

// Println calls println with the given descriptor on System.out.
func (e *Emitter) Println(descriptor string) {
	e.line(printMethod + descriptor)
}

// --- Boilerplate ---

// Finish prepends the class and method header and appends the method
// footer. The listing is complete only after Finish.
func (e *Emitter) Finish(className string, maxStack, locals int) error {
	if e.finished {
		return ErrFinished
	}
	e.finished = true
	e.header = header(className, maxStack, locals)
	e.footer = indent + "return\n.end method\n"
	return nil
}

func header(className string, maxStack, locals int) string {
	var b strings.Builder
	fmt.Fprintf(&b, ".class public synchronized %s\n", className)
	b.WriteString(".super java/lang/Object\n\n")
	b.WriteString(".method public <init>()V\n")
	b.WriteString(indent + ".limit stack 1\n")
	b.WriteString(indent + ".limit locals 1\n")
	b.WriteString(indent + "aload_0\n")
	b.WriteString(indent + "invokenonvirtual java/lang/Object/<init>()V\n")
	b.WriteString(indent + "return\n")
	b.WriteString(".end method\n\n")
	b.WriteString(".method public static main([Ljava/lang/String;)V\n")
	fmt.Fprintf(&b, indent+".limit stack %d\n", maxStack)
	fmt.Fprintf(&b, indent+".limit locals %d\n", locals)
	return b.String()
}

// Body returns the instructions appended so far, without boilerplate.
func (e *Emitter) Body() string {
	return e.body.String()
}

// String returns the full listing.
func (e *Emitter) String() string {
	return e.header + e.body.String() + e.footer
}
