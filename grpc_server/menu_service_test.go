package grpcserver

import (
	"context"
	"net"
	"testing"
	"time"

	"therapyhub-menus/auth"
	"therapyhub-menus/database"
	"therapyhub-menus/interceptors"
	"therapyhub-menus/models"
	"therapyhub-menus/repositories"
	"therapyhub-menus/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type grpcFixture struct {
	client   MenuServiceClient
	menus    services.MenuService
	userType uint
	parent   *services.MenuResponse
	child    *services.MenuResponse
}

func newGRPCFixture(t *testing.T) *grpcFixture {
	t.Helper()
	ctx := context.Background()
	uow := repositories.NewUnitOfWork(database.SetupTestDB(t))
	menus := services.NewMenuService(uow, zap.NewNop())

	ut := models.UserType{Name: "Therapist", IsActive: true, CreatedAt: time.Now()}
	require.NoError(t, uow.UserTypes().Create(ctx, &ut))
	icon := "folder"
	parent, err := menus.CreateMenu(ctx, &services.MenuInput{Title: "Clinic", Route: "#", Icon: &icon, IsActive: true})
	require.NoError(t, err)
	child, err := menus.CreateMenu(ctx, &services.MenuInput{Title: "Agenda", Route: "/agenda", ParentID: &parent.ID, IsActive: true})
	require.NoError(t, err)
	require.NoError(t, menus.AssignMenus(ctx, &services.AssignMenusInput{UserTypeID: ut.ID, MenuIDs: []uint{child.ID}}))

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		interceptors.ZapLoggingInterceptor(zap.NewNop()),
		interceptors.AuthInterceptor(PublicMethods...),
	))
	RegisterMenuServiceServer(srv, NewMenuServiceServer(menus, zap.NewNop()))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &grpcFixture{client: NewMenuServiceClient(conn), menus: menus, userType: ut.ID, parent: parent, child: child}
}

func TestListMenus(t *testing.T) {
	f := newGRPCFixture(t)

	list, err := f.client.ListMenus(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	require.Len(t, list.Values, 2)

	first := list.Values[0].GetStructValue().AsMap()
	assert.Equal(t, "Clinic", first["title"])
	assert.Equal(t, "folder", first["icon"])
	assert.Nil(t, first["parentId"])
	assert.Equal(t, []interface{}{}, first["children"])
}

func TestGetUserTypeMenus(t *testing.T) {
	f := newGRPCFixture(t)

	tree, err := f.client.GetUserTypeMenus(context.Background(), wrapperspb.Int64(int64(f.userType)))
	require.NoError(t, err)
	require.Len(t, tree.Values, 1)

	root := tree.Values[0].GetStructValue().AsMap()
	assert.EqualValues(t, f.parent.ID, root["id"])
	children := root["children"].([]interface{})
	require.Len(t, children, 1)
	assert.EqualValues(t, f.child.ID, children[0].(map[string]interface{})["id"])

	_, err = f.client.GetUserTypeMenus(context.Background(), wrapperspb.Int64(0))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGetCurrentUserMenus(t *testing.T) {
	f := newGRPCFixture(t)

	_, err := f.client.GetCurrentUserMenus(context.Background(), &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	token, err := auth.GenerateToken(5, 1, f.userType, time.Hour)
	require.NoError(t, err)
	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)

	tree, err := f.client.GetCurrentUserMenus(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	require.Len(t, tree.Values, 1)
	assert.Equal(t, "Clinic", tree.Values[0].GetStructValue().AsMap()["title"])
}

func TestToStatus(t *testing.T) {
	s := &menuServiceServer{logger: zap.NewNop()}

	assert.Equal(t, codes.InvalidArgument, status.Code(s.toStatus("m", &services.ValidationError{Message: "bad"})))
	assert.Equal(t, codes.NotFound, status.Code(s.toStatus("m", &services.NotFoundError{Resource: "Menu", ID: 1})))
	assert.Equal(t, codes.Internal, status.Code(s.toStatus("m", assert.AnError)))
}
