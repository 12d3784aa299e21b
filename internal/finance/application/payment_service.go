package application

import "github.com/sebuszqo/FlexiFi/internal/finance/domain"

type PaymentService struct {
	methods map[string]struct{}
}

func NewPaymentService() *PaymentService {
	methods := make(map[string]struct{}, len(domain.PaymentMethods))
	for _, method := range domain.PaymentMethods {
		methods[method] = struct{}{}
	}
	return &PaymentService{methods: methods}
}

func (s *PaymentService) GetAllPaymentMethods() []string {
	out := make([]string, len(domain.PaymentMethods))
	copy(out, domain.PaymentMethods)
	return out
}

// IsValidPaymentMethod accepts an empty method; transactions may omit it.
func (s *PaymentService) IsValidPaymentMethod(method string) bool {
	if method == "" {
		return true
	}
	_, ok := s.methods[method]
	return ok
}
