package codegen

const (
	decimalToASCIILabel = "decimal_to_ascii"
	asciiToDecimalLabel = "ascii_to_decimal"
)

// decimalToASCII converts the integer at [rsp + 8] into at most eight ASCII
// characters stored in place, first character at the lowest address.
// The character count is returned in rcx. A number that needs more than
// eight characters is printed as ########.
const decimalToASCII = `decimal_to_ascii:
    mov rax, [rsp + 8]
    xor r10, r10
    cmp rax, 0
    jge .convert
    neg rax
    mov r10, 1
.convert:
    xor r8, r8
    xor rcx, rcx
    mov r9, 10
.next_digit:
    xor rdx, rdx
    div r9
    add rdx, 48
    shl r8, 8
    or r8, rdx
    inc rcx
    cmp rax, 0
    jne .next_digit
    cmp r10, 0
    je .clamp
    shl r8, 8
    or r8, 45
    inc rcx
.clamp:
    cmp rcx, 8
    jbe .store
    mov r8, 0x2323232323232323
    mov rcx, 8
.store:
    mov [rsp + 8], r8
    ret
`

// asciiToDecimal parses an optionally signed decimal from the eight raw bytes
// at [rsp + 8] and stores the integer back in place. Parsing stops at the
// first byte that is not a digit.
const asciiToDecimal = `ascii_to_decimal:
    mov r8, [rsp + 8]
    xor rax, rax
    xor r10, r10
    xor rcx, rcx
    cmp r8b, 45
    jne .next_char
    mov r10, 1
    shr r8, 8
    inc rcx
.next_char:
    cmp rcx, 8
    je .apply_sign
    movzx rdx, r8b
    sub rdx, 48
    cmp rdx, 9
    ja .apply_sign
    imul rax, rax, 10
    add rax, rdx
    shr r8, 8
    inc rcx
    jmp .next_char
.apply_sign:
    cmp r10, 0
    je .store
    neg rax
.store:
    mov [rsp + 8], rax
    ret
`

// HelperLibrary returns the source of both conversion routines, suitable for
// a file referenced through Options.HelpersInclude.
func HelperLibrary() string {
	return decimalToASCII + "\n" + asciiToDecimal
}
