package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const (
	BookingServiceName = "medbook.v1.BookingService"

	GetPractitionerMethod       = "/" + BookingServiceName + "/GetPractitioner"
	GetAvailabilityMethod       = "/" + BookingServiceName + "/GetAvailability"
	CreateReservationMethod     = "/" + BookingServiceName + "/CreateReservation"
	GetReservationMethod        = "/" + BookingServiceName + "/GetReservation"
	RescheduleReservationMethod = "/" + BookingServiceName + "/RescheduleReservation"
	CancelReservationMethod     = "/" + BookingServiceName + "/CancelReservation"
)

type BookingServiceServer interface {
	GetPractitioner(context.Context, *GetPractitionerRequest) (*PractitionerResponse, error)
	GetAvailability(context.Context, *GetAvailabilityRequest) (*GetAvailabilityResponse, error)
	CreateReservation(context.Context, *CreateReservationRequest) (*ReservationResponse, error)
	GetReservation(context.Context, *GetReservationRequest) (*ReservationResponse, error)
	RescheduleReservation(context.Context, *RescheduleReservationRequest) (*ReservationResponse, error)
	CancelReservation(context.Context, *CancelReservationRequest) (*ReservationResponse, error)
}

// BookingServiceDesc is declared by hand; messages travel through the JSON
// codec rather than generated protobuf types.
var BookingServiceDesc = grpc.ServiceDesc{
	ServiceName: BookingServiceName,
	HandlerType: (*BookingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetPractitioner", Handler: unaryHandler(GetPractitionerMethod, BookingServiceServer.GetPractitioner)},
		{MethodName: "GetAvailability", Handler: unaryHandler(GetAvailabilityMethod, BookingServiceServer.GetAvailability)},
		{MethodName: "CreateReservation", Handler: unaryHandler(CreateReservationMethod, BookingServiceServer.CreateReservation)},
		{MethodName: "GetReservation", Handler: unaryHandler(GetReservationMethod, BookingServiceServer.GetReservation)},
		{MethodName: "RescheduleReservation", Handler: unaryHandler(RescheduleReservationMethod, BookingServiceServer.RescheduleReservation)},
		{MethodName: "CancelReservation", Handler: unaryHandler(CancelReservationMethod, BookingServiceServer.CancelReservation)},
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterBookingServiceServer(s grpc.ServiceRegistrar, srv BookingServiceServer) {
	s.RegisterService(&BookingServiceDesc, srv)
}

func unaryHandler[Req, Resp any](fullMethod string, call func(BookingServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BookingServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BookingServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// BookingServiceClient calls the booking service with the JSON codec.
type BookingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewBookingServiceClient(cc grpc.ClientConnInterface) *BookingServiceClient {
	return &BookingServiceClient{cc: cc}
}

func (c *BookingServiceClient) GetPractitioner(ctx context.Context, in *GetPractitionerRequest, opts ...grpc.CallOption) (*PractitionerResponse, error) {
	out := new(PractitionerResponse)
	if err := c.invoke(ctx, GetPractitionerMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingServiceClient) GetAvailability(ctx context.Context, in *GetAvailabilityRequest, opts ...grpc.CallOption) (*GetAvailabilityResponse, error) {
	out := new(GetAvailabilityResponse)
	if err := c.invoke(ctx, GetAvailabilityMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingServiceClient) CreateReservation(ctx context.Context, in *CreateReservationRequest, opts ...grpc.CallOption) (*ReservationResponse, error) {
	out := new(ReservationResponse)
	if err := c.invoke(ctx, CreateReservationMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingServiceClient) GetReservation(ctx context.Context, in *GetReservationRequest, opts ...grpc.CallOption) (*ReservationResponse, error) {
	out := new(ReservationResponse)
	if err := c.invoke(ctx, GetReservationMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingServiceClient) RescheduleReservation(ctx context.Context, in *RescheduleReservationRequest, opts ...grpc.CallOption) (*ReservationResponse, error) {
	out := new(ReservationResponse)
	if err := c.invoke(ctx, RescheduleReservationMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingServiceClient) CancelReservation(ctx context.Context, in *CancelReservationRequest, opts ...grpc.CallOption) (*ReservationResponse, error) {
	out := new(ReservationResponse)
	if err := c.invoke(ctx, CancelReservationMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(ContentSubtype)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}
