package grpcserver

import (
	"context"
	"errors"
	"time"

	"therapyhub-menus/interceptors"
	"therapyhub-menus/services"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// MenuServiceName is the fully qualified gRPC service name.
const MenuServiceName = "therapyhub.menus.v1.MenuService"

const (
	ListMenusMethod           = "/" + MenuServiceName + "/ListMenus"
	GetUserTypeMenusMethod    = "/" + MenuServiceName + "/GetUserTypeMenus"
	GetCurrentUserMenusMethod = "/" + MenuServiceName + "/GetCurrentUserMenus"
)

// PublicMethods can be called without a bearer token.
var PublicMethods = []string{
	ListMenusMethod,
	GetUserTypeMenusMethod,
	"/grpc.health.v1.Health/Check",
}

// MenuServiceServer is the server API of the menu service. Menus travel as lists of structs
// carrying the same fields as the HTTP JSON.
type MenuServiceServer interface {
	ListMenus(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	GetUserTypeMenus(context.Context, *wrapperspb.Int64Value) (*structpb.ListValue, error)
	GetCurrentUserMenus(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
}

// RegisterMenuServiceServer attaches srv to s.
func RegisterMenuServiceServer(s grpc.ServiceRegistrar, srv MenuServiceServer) {
	s.RegisterService(&menuServiceDesc, srv)
}

var menuServiceDesc = grpc.ServiceDesc{
	ServiceName: MenuServiceName,
	HandlerType: (*MenuServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListMenus", Handler: listMenusHandler},
		{MethodName: "GetUserTypeMenus", Handler: getUserTypeMenusHandler},
		{MethodName: "GetCurrentUserMenus", Handler: getCurrentUserMenusHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func listMenusHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MenuServiceServer).ListMenus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ListMenusMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MenuServiceServer).ListMenus(ctx, req.(*emptypb.Empty))
	})
}

func getUserTypeMenusHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MenuServiceServer).GetUserTypeMenus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetUserTypeMenusMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MenuServiceServer).GetUserTypeMenus(ctx, req.(*wrapperspb.Int64Value))
	})
}

func getCurrentUserMenusHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MenuServiceServer).GetCurrentUserMenus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetCurrentUserMenusMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MenuServiceServer).GetCurrentUserMenus(ctx, req.(*emptypb.Empty))
	})
}

// --- Client ---

type MenuServiceClient interface {
	ListMenus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	GetUserTypeMenus(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.ListValue, error)
	GetCurrentUserMenus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
}

type menuServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMenuServiceClient(cc grpc.ClientConnInterface) MenuServiceClient {
	return &menuServiceClient{cc: cc}
}

func (c *menuServiceClient) ListMenus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, ListMenusMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *menuServiceClient) GetUserTypeMenus(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, GetUserTypeMenusMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *menuServiceClient) GetCurrentUserMenus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, GetCurrentUserMenusMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// --- Server ---

type menuServiceServer struct {
	menuService services.MenuService
	logger      *zap.Logger
}

var _ MenuServiceServer = (*menuServiceServer)(nil)

// NewMenuServiceServer creates a new gRPC menu service server.
func NewMenuServiceServer(ms services.MenuService, logger *zap.Logger) MenuServiceServer {
	return &menuServiceServer{menuService: ms, logger: logger.Named("grpc_menus")}
}

func (s *menuServiceServer) ListMenus(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	menus, err := s.menuService.ListMenus(ctx)
	if err != nil {
		return nil, s.toStatus("ListMenus", err)
	}
	return s.toList(menus)
}

func (s *menuServiceServer) GetUserTypeMenus(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.ListValue, error) {
	if req.GetValue() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "user type id must be positive")
	}
	tree, err := s.menuService.GetMenuTreeForUserType(ctx, uint(req.GetValue()))
	if err != nil {
		return nil, s.toStatus("GetUserTypeMenus", err)
	}
	return s.toList(tree)
}

func (s *menuServiceServer) GetCurrentUserMenus(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	userTypeID, ok := interceptors.GetUserTypeIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "could not resolve the user type of the caller")
	}
	tree, err := s.menuService.GetMenuTreeForUserType(ctx, userTypeID)
	if err != nil {
		return nil, s.toStatus("GetCurrentUserMenus", err)
	}
	return s.toList(tree)
}

func (s *menuServiceServer) toList(menus []services.MenuResponse) (*structpb.ListValue, error) {
	list, err := structpb.NewList(menusToValues(menus))
	if err != nil {
		s.logger.Error("Failed to encode menus", zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to encode menus")
	}
	return list, nil
}

// toStatus converts service errors to gRPC errors.
func (s *menuServiceServer) toStatus(method string, err error) error {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	switch {
	case errors.As(err, &validationErr):
		return status.Error(codes.InvalidArgument, validationErr.Message)
	case errors.As(err, &notFoundErr):
		return status.Error(codes.NotFound, notFoundErr.Error())
	default:
		s.logger.Error("gRPC call failed", zap.String("method", method), zap.Error(err))
		return status.Error(codes.Internal, "internal server error")
	}
}

// menusToValues flattens responses into the plain values structpb accepts.
func menusToValues(menus []services.MenuResponse) []interface{} {
	out := make([]interface{}, 0, len(menus))
	for _, m := range menus {
		v := map[string]interface{}{
			"id":        m.ID,
			"title":     m.Title,
			"route":     m.Route,
			"icon":      nil,
			"sortOrder": nil,
			"parentId":  nil,
			"isActive":  m.IsActive,
			"isSystem":  m.IsSystem,
			"createdAt": m.CreatedAt.UTC().Format(time.RFC3339),
			"children":  menusToValues(m.Children),
		}
		if m.Icon != nil {
			v["icon"] = *m.Icon
		}
		if m.SortOrder != nil {
			v["sortOrder"] = *m.SortOrder
		}
		if m.ParentID != nil {
			v["parentId"] = *m.ParentID
		}
		out = append(out, v)
	}
	return out
}
